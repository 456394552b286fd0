package services

import (
	"context"
	"errors"
	"hbs/src/config"
	"hbs/src/errs"
	"hbs/src/lib"
	"hbs/src/models"
	"hbs/src/models/scopes"
	"hbs/src/types"
	"hbs/src/utils"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const TransactionsTopic = "transactions"

type CreateTransactionInput struct {
	GuestID         uuid.UUID
	RoomID          uuid.UUID
	VoucherID       *uuid.UUID
	TotalAmount     float64
	ReferenceNo     string
	CheckIn         time.Time
	CheckOut        time.Time
	TransactionType types.TransactionType
	BasePrice       float64
	Discount        float64
	PaymentMethod   string
	Currency        string
}

type TransactionEvent struct {
	Type          string                  `json:"type"`
	TransactionID uuid.UUID               `json:"transaction_id"`
	GuestID       uuid.UUID               `json:"guest_id"`
	RoomID        uuid.UUID               `json:"room_id"`
	Status        types.TransactionStatus `json:"status"`
	ActorID       uuid.UUID               `json:"actor_id"`
	OccurredAt    int64                   `json:"occurred_at"`
}

type TransactionService struct {
	Clock

	db      *gorm.DB
	loyalty *LoyaltyService
	Points  PointsPolicy
	Events  lib.EventPublisher
}

func NewTransactionService(db *gorm.DB, loyalty *LoyaltyService, events lib.EventPublisher) *TransactionService {
	if events == nil {
		events = lib.NoopPublisher{}
	}
	return &TransactionService{
		db:      db,
		loyalty: loyalty,
		Points:  NoPoints{},
		Events:  events,
	}
}

func withAuditLog(db *gorm.DB) *gorm.DB {
	return db.Preload("AuditLog", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq asc")
	})
}

func (in *CreateTransactionInput) validate() error {
	if in.GuestID == uuid.Nil {
		return errs.Validation("guest_id is required")
	}
	if in.RoomID == uuid.Nil {
		return errs.Validation("room_id is required")
	}
	in.ReferenceNo = utils.NormalizeReferenceNo(in.ReferenceNo)
	if !utils.ValidReferenceNo(in.ReferenceNo) {
		return errs.Validation("Reference number must be exactly 13 digits")
	}
	if !utils.ValidTransactionType(string(in.TransactionType)) {
		return errs.Validation("transaction_type must be Booking or Reservation")
	}
	if in.TotalAmount < 0 || in.BasePrice < 0 || in.Discount < 0 {
		return errs.Validation("amounts must not be negative")
	}
	in.CheckIn, in.CheckOut = types.Normalize(in.CheckIn), types.Normalize(in.CheckOut)
	return validateStayWindow(in.CheckIn, in.CheckOut)
}

// initialAction is the label of the first audit entry. The persisted status is still pending
// until staff accept the request.
func initialAction(t types.TransactionType) string {
	if t == types.TRANSACTION_RESERVATION {
		return string(types.TRANSACTION_RESERVED)
	}
	return string(types.TRANSACTION_BOOKED)
}

// Create records a new pending transaction. The room instance row is locked for the duration
// of the db transaction and the overlap check is repeated under that lock, so two concurrent
// requests for the same window cannot both succeed.
func (s *TransactionService) Create(ctx context.Context, in CreateTransactionInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.now()
	method := in.PaymentMethod
	if method == "" {
		method = config.DEFAULT_PAYMENT
	}
	currency := in.Currency
	if currency == "" {
		currency = config.DEFAULT_CURRENCY
	}

	var t models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.Scopes(scopes.WithID(in.GuestID)).First(&guest).Error; err != nil {
			return notFoundOr(err, "guest not found")
		}
		var instance models.RoomInstance
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(scopes.WithID(in.RoomID)).
			First(&instance).
			Error
		if err != nil {
			return notFoundOr(err, "room instance not found")
		}
		var rt models.RoomType
		if err := tx.Scopes(scopes.WithID(instance.RoomTypeID)).First(&rt).Error; err != nil {
			return notFoundOr(err, "room type not found")
		}
		if !rt.IsActive() {
			return errs.NotFound("room type not found")
		}

		conflict, err := HasConflict(tx, instance.ID, in.CheckIn, in.CheckOut)
		if err != nil {
			return internal("check room conflicts", err)
		}
		if conflict {
			return errs.Conflict("room is no longer available")
		}

		if in.VoucherID != nil {
			if err := redeemVoucher(tx, guest.ID, *in.VoucherID, now); err != nil {
				return err
			}
		}

		t = models.Transaction{
			TransactionType: in.TransactionType,
			GuestID:         guest.ID,
			RoomID:          instance.ID,
			VoucherID:       in.VoucherID,
			Payments: types.Payments{{
				Method:      method,
				Details:     types.PaymentDetails{ReferenceNo: in.ReferenceNo},
				Amount:      in.TotalAmount,
				Currency:    currency,
				Status:      string(types.PAYMENT_PENDING),
				ProcessedAt: now,
			}},
			Stay: models.StayDetails{
				ExpectedCheckin:  in.CheckIn,
				ExpectedCheckout: in.CheckOut,
				GuestNum:         rt.GuestNum,
				StayHours:        utils.StayHours(in.CheckIn, in.CheckOut),
				TimeAllowance:    config.TIME_ALLOWANCE_HOURS,
			},
			CurrentStatus: types.TRANSACTION_PENDING,
			Meta: models.TransactionMeta{
				OriginalRate: in.BasePrice,
				Discount:     in.Discount,
			},
			Version: 1,
			AuditLog: []models.AuditEntry{{
				Seq:       1,
				Action:    initialAction(in.TransactionType),
				ActorID:   guest.ID,
				Timestamp: now,
			}},
		}
		if err := tx.Create(&t).Error; err != nil {
			return internal("create transaction", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, &t, "transaction.created", t.GuestID, now)
	return &t, nil
}

// redeemVoucher marks the guest's unused claim on a usable voucher as used.
func redeemVoucher(tx *gorm.DB, guestID, voucherID uuid.UUID, now time.Time) error {
	var v models.Voucher
	if err := tx.Scopes(scopes.WithID(voucherID)).First(&v).Error; err != nil {
		return notFoundOr(err, "voucher not found")
	}
	if !v.Usable(now) {
		return errs.Validation("voucher_id refers to a voucher that is not valid at this time")
	}
	var claim models.VoucherClaim
	err := tx.Where("guest_id = ? AND voucher_id = ? AND status = ?", guestID, voucherID, types.CLAIM_UNUSED).
		Order("date_claimed asc").
		First(&claim).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Validation("voucher_id has no unused claim for this guest; purchase the voucher before redeeming it")
		}
		return internal("find voucher claim", err)
	}
	res := tx.Model(&models.VoucherClaim{}).
		Where("id = ? AND status = ?", claim.ID, types.CLAIM_UNUSED).
		Update("status", types.CLAIM_USED)
	if res.Error != nil {
		return internal("redeem voucher claim", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.Conflict("voucher claim was already used")
	}
	return nil
}

func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).Scopes(withAuditLog, scopes.WithID(id)).First(&t).Error; err != nil {
		return nil, notFoundOr(err, "transaction not found")
	}
	return &t, nil
}

func (s *TransactionService) ListForGuest(ctx context.Context, guestID uuid.UUID) ([]models.Transaction, error) {
	var list []models.Transaction
	err := s.db.WithContext(ctx).
		Scopes(withAuditLog).
		Where("guest_id = ?", guestID).
		Order("stay_expected_checkin desc").
		Find(&list).
		Error
	if err != nil {
		return nil, internal("list guest transactions", err)
	}
	return list, nil
}

func (s *TransactionService) publish(ctx context.Context, t *models.Transaction, eventType string, actor uuid.UUID, at time.Time) {
	err := s.Events.Publish(ctx, TransactionsTopic, t.ID.String(), TransactionEvent{
		Type:          eventType,
		TransactionID: t.ID,
		GuestID:       t.GuestID,
		RoomID:        t.RoomID,
		Status:        t.CurrentStatus,
		ActorID:       actor,
		OccurredAt:    types.Millis(at),
	})
	if err != nil {
		log.Printf("[Transactions] Error publishing %s: %s\n", eventType, err.Error())
	}
}
