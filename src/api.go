package main

import (
	"context"
	"fmt"
	"hbs/src/config"
	"hbs/src/lib"
	"hbs/src/models"
	"hbs/src/services"
	"hbs/src/types"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// API bundles the services the route handlers call into.
type API struct {
	Catalog      *services.CatalogService
	Availability *services.AvailabilityService
	Transactions *services.TransactionService
	Loyalty      *services.LoyaltyService
	Reviews      *services.ReviewService
	Guests       *services.GuestService
	Notifier     lib.Notifier
}

func NewAPI(db *gorm.DB, rd *redis.Client, events lib.EventPublisher, notifier lib.Notifier) *API {
	if notifier == nil {
		notifier = lib.NoopNotifier{}
	}
	loyalty := services.NewLoyaltyService(db)
	transactions := services.NewTransactionService(db, loyalty, events)
	if config.GetEnv("POINTS_POLICY", "none") == "membership" {
		transactions.Points = services.MembershipPoints{}
	}
	return &API{
		Catalog:      services.NewCatalogService(db),
		Availability: services.NewAvailabilityService(db),
		Transactions: transactions,
		Loyalty:      loyalty,
		Reviews:      services.NewReviewService(db, rd, config.StatsCacheTTL()),
		Guests:       services.NewGuestService(db),
		Notifier:     notifier,
	}
}

// notifyGuest emails the guest about a transaction. Failures are logged and never reach the caller.
func (api *API) notifyGuest(t *models.Transaction) {
	if _, noop := api.Notifier.(lib.NoopNotifier); noop {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	guest, err := api.Guests.GetGuest(ctx, t.GuestID)
	if err != nil {
		log.Printf("[Notify] Error retrieving guest %s: %s\n", t.GuestID, err.Error())
		return
	}
	if guest.Email == "" {
		return
	}
	subject := fmt.Sprintf("Your %s request has been received", t.TransactionType)
	if t.CurrentStatus != types.TRANSACTION_PENDING {
		subject = fmt.Sprintf("Your %s is now %s", t.TransactionType, t.CurrentStatus)
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nTransaction %s\nCheck-in: %s\nCheck-out: %s\nStatus: %s\n",
		guest.FirstName,
		t.ID,
		t.Stay.ExpectedCheckin.Format(time.RFC1123),
		t.Stay.ExpectedCheckout.Format(time.RFC1123),
		t.CurrentStatus,
	)
	if err := api.Notifier.Notify(ctx, lib.Notification{To: guest.Email, Subject: subject, Body: body}); err != nil {
		log.Printf("[Notify] Error sending notification for transaction %s: %s\n", t.ID, err.Error())
	}
}
