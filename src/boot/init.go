package boot

import (
	"context"
	"hbs/src/config"
	"hbs/src/db"
	"hbs/src/lib"
	"hbs/src/models"
	"hbs/src/services"
	"log"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	if err := models.Migrate(db); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// ExpireVoucherClaims is the scheduled sweep over claims past their expiry date.
func ExpireVoucherClaims(loyalty *services.LoyaltyService) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := loyalty.ExpireClaims(ctx)
	if err != nil {
		log.Printf("Error while processing expired voucher claims: %s\n", err.Error())
		return
	}
	if n > 0 {
		log.Printf("Expired %d voucher claims\n", n)
	}
}

func InitScheduler(loyalty *services.LoyaltyService) {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	interval := config.GetEnvDuration("CLAIM_EXPIRY_INTERVAL", time.Hour)
	id, err := lib.CreateCronJob("expire-voucher-claims", ExpireVoucherClaims, interval, loyalty)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *id)
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
	}
}
