package services

import (
	"context"
	"errors"
	"hbs/src/errs"
	"hbs/src/models"
	"hbs/src/models/scopes"
	"hbs/src/types"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointsPolicy decides how many loyalty points a completed stay earns.
type PointsPolicy interface {
	PointsFor(t *models.Transaction, guest *models.Guest) int
}

// NoPoints awards nothing on completion.
type NoPoints struct{}

func (NoPoints) PointsFor(t *models.Transaction, guest *models.Guest) int {
	return 0
}

// MembershipPoints awards the guest's tier rate for the transaction type.
type MembershipPoints struct{}

func (MembershipPoints) PointsFor(t *models.Transaction, guest *models.Guest) int {
	if guest == nil || guest.Membership == nil {
		return 0
	}
	if t.TransactionType == types.TRANSACTION_RESERVATION {
		return guest.Membership.ReservationPoints
	}
	return guest.Membership.BookingPoints
}

type transition struct {
	from  []types.TransactionStatus
	staff bool
	to    func(t *models.Transaction) types.TransactionStatus
	// apply adds transition specific column updates and returns the points earned.
	apply func(tx *gorm.DB, t *models.Transaction, actor Actor, now time.Time, updates map[string]any) (int, error)
}

func to(status types.TransactionStatus) func(*models.Transaction) types.TransactionStatus {
	return func(*models.Transaction) types.TransactionStatus {
		return status
	}
}

// Cancel moves a pending transaction owned by the actor to cancelled and gives back any
// voucher that was redeemed on it.
func (s *TransactionService) Cancel(ctx context.Context, id uuid.UUID, actor Actor) (*models.Transaction, error) {
	return s.transition(ctx, id, actor, transition{
		from: []types.TransactionStatus{types.TRANSACTION_PENDING},
		to:   to(types.TRANSACTION_CANCELLED),
		apply: func(tx *gorm.DB, t *models.Transaction, actor Actor, now time.Time, updates map[string]any) (int, error) {
			if t.VoucherID == nil {
				return 0, nil
			}
			return 0, restoreVoucher(tx, t.GuestID, *t.VoucherID)
		},
	})
}

// Accept is the staff acknowledgement of a pending request.
func (s *TransactionService) Accept(ctx context.Context, id uuid.UUID, actor Actor) (*models.Transaction, error) {
	return s.transition(ctx, id, actor, transition{
		from:  []types.TransactionStatus{types.TRANSACTION_PENDING},
		staff: true,
		to: func(t *models.Transaction) types.TransactionStatus {
			if t.TransactionType == types.TRANSACTION_RESERVATION {
				return types.TRANSACTION_RESERVED
			}
			return types.TRANSACTION_BOOKED
		},
		apply: func(tx *gorm.DB, t *models.Transaction, actor Actor, now time.Time, updates map[string]any) (int, error) {
			updates["employee_id"] = actor.ID
			return 0, nil
		},
	})
}

// Confirm checks the guest in.
func (s *TransactionService) Confirm(ctx context.Context, id uuid.UUID, actor Actor) (*models.Transaction, error) {
	return s.transition(ctx, id, actor, transition{
		from:  []types.TransactionStatus{types.TRANSACTION_RESERVED, types.TRANSACTION_BOOKED},
		staff: true,
		to:    to(types.TRANSACTION_CONFIRMED),
		apply: func(tx *gorm.DB, t *models.Transaction, actor Actor, now time.Time, updates map[string]any) (int, error) {
			updates["employee_id"] = actor.ID
			updates["stay_actual_checkin"] = now
			err := tx.Model(&models.Guest{}).
				Scopes(scopes.WithID(t.GuestID)).
				UpdateColumn("checkin_count", gorm.Expr("checkin_count + 1")).
				Error
			if err != nil {
				return 0, internal("increment checkin count", err)
			}
			return 0, nil
		},
	})
}

// Checkout completes a confirmed stay owned by the actor and credits the points policy award.
func (s *TransactionService) Checkout(ctx context.Context, id uuid.UUID, actor Actor) (*models.Transaction, error) {
	return s.transition(ctx, id, actor, transition{
		from: []types.TransactionStatus{types.TRANSACTION_CONFIRMED},
		to:   to(types.TRANSACTION_COMPLETED),
		apply: func(tx *gorm.DB, t *models.Transaction, actor Actor, now time.Time, updates map[string]any) (int, error) {
			updates["stay_actual_checkout"] = now
			var guest models.Guest
			if err := tx.Preload("Membership").Scopes(scopes.WithID(t.GuestID)).First(&guest).Error; err != nil {
				return 0, notFoundOr(err, "guest not found")
			}
			points := s.Points.PointsFor(t, &guest)
			if points > 0 {
				if err := s.loyalty.AwardPoints(tx, guest.ID, points); err != nil {
					return 0, err
				}
			}
			return points, nil
		},
	})
}

// transition runs read, guard, conditional update and audit append in one db transaction.
// The update only matches the version that was read, so a concurrent transition on the same
// record makes this one fail with Conflict instead of overwriting it.
func (s *TransactionService) transition(ctx context.Context, id uuid.UUID, actor Actor, tr transition) (*models.Transaction, error) {
	now := s.now()
	var t models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(withAuditLog, scopes.WithID(id)).First(&t).Error; err != nil {
			return notFoundOr(err, "transaction not found")
		}
		if tr.staff {
			if !actor.IsStaff() {
				return errs.Forbidden("staff only")
			}
		} else if !t.IsOwnedBy(actor.ID) {
			return errs.Forbidden("Unauthorized")
		}
		if !slices.Contains(tr.from, t.CurrentStatus) {
			return errs.Conflict("Transaction cannot be updated from status " + string(t.CurrentStatus))
		}

		next := tr.to(&t)
		updates := map[string]any{
			"current_status": next,
			"version":        gorm.Expr("version + 1"),
		}
		points, err := tr.apply(tx, &t, actor, now, updates)
		if err != nil {
			return err
		}
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND version = ?", t.ID, t.Version).
			Updates(updates)
		if res.Error != nil {
			return internal("update transaction status", res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.Conflict("transaction was modified concurrently")
		}
		entry := models.AuditEntry{
			TransactionID: t.ID,
			Seq:           t.LastSeq() + 1,
			Action:        string(next),
			ActorID:       actor.ID,
			Timestamp:     now,
			PointsEarned:  points,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return internal("append audit entry", err)
		}
		t = models.Transaction{}
		return tx.Scopes(withAuditLog, scopes.WithID(id)).First(&t).Error
	})
	if err != nil {
		return nil, errs.Internal(err)
	}
	s.publish(ctx, &t, "transaction."+string(t.CurrentStatus), actor.ID, now)
	return &t, nil
}

func restoreVoucher(tx *gorm.DB, guestID, voucherID uuid.UUID) error {
	var claim models.VoucherClaim
	err := tx.Where("guest_id = ? AND voucher_id = ? AND status = ?", guestID, voucherID, types.CLAIM_USED).
		Order("date_claimed desc").
		First(&claim).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return internal("find redeemed voucher claim", err)
	}
	if err := tx.Model(&claim).Update("status", types.CLAIM_UNUSED).Error; err != nil {
		return internal("restore voucher claim", err)
	}
	return nil
}
