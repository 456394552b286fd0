package services

import (
	"context"
	"hbs/src/errs"
	"hbs/src/models"
	"hbs/src/models/scopes"
	"hbs/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoyaltyService struct {
	Clock

	db *gorm.DB
}

func NewLoyaltyService(db *gorm.DB) *LoyaltyService {
	return &LoyaltyService{db: db}
}

func usableAt(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ? AND valid_from <= ? AND valid_until >= ?", true, now, now)
	}
}

// PurchaseVoucher trades guest points for an unused claim on a buyable voucher and returns
// the new balance. The decrement only applies while the balance still covers the price.
func (s *LoyaltyService) PurchaseVoucher(ctx context.Context, guestID, voucherID uuid.UUID) (int, error) {
	now := s.now()
	var balance int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v models.Voucher
		if err := tx.Scopes(scopes.WithID(voucherID)).First(&v).Error; err != nil {
			return notFoundOr(err, "Voucher not found or not available")
		}
		if !v.IsBuyable() || !v.Usable(now) {
			return errs.NotFound("Voucher not found or not available")
		}
		var guest models.Guest
		if err := tx.Scopes(scopes.WithID(guestID)).First(&guest).Error; err != nil {
			return notFoundOr(err, "guest not found")
		}
		if guest.Points < v.Price {
			return errs.ErrInsufficientPoints
		}
		res := tx.Model(&models.Guest{}).
			Where("id = ? AND points >= ?", guest.ID, v.Price).
			UpdateColumn("points", gorm.Expr("points - ?", v.Price))
		if res.Error != nil {
			return internal("debit guest points", res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.ErrInsufficientPoints
		}
		claim := models.VoucherClaim{
			GuestID:     guest.ID,
			VoucherID:   v.ID,
			Status:      types.CLAIM_UNUSED,
			DateClaimed: now,
			DateExpired: v.ValidUntil,
		}
		if err := tx.Create(&claim).Error; err != nil {
			return internal("create voucher claim", err)
		}
		return tx.Model(&models.Guest{}).Select("points").Scopes(scopes.WithID(guest.ID)).Scan(&balance).Error
	})
	if err != nil {
		return 0, errs.Internal(err)
	}
	return balance, nil
}

// AwardPoints credits points inside the caller's db transaction.
func (s *LoyaltyService) AwardPoints(tx *gorm.DB, guestID uuid.UUID, points int) error {
	if points <= 0 {
		return nil
	}
	res := tx.Model(&models.Guest{}).
		Scopes(scopes.WithID(guestID)).
		UpdateColumn("points", gorm.Expr("points + ?", points))
	if res.Error != nil {
		return internal("credit guest points", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("guest not found")
	}
	return nil
}

// ListUsableVouchers returns the vouchers behind the guest's not-yet-used claims that can be
// redeemed right now. Claims pointing at lapsed vouchers are left as they are.
func (s *LoyaltyService) ListUsableVouchers(ctx context.Context, guestID uuid.UUID) ([]models.Voucher, error) {
	db := s.db.WithContext(ctx)
	var guest models.Guest
	if err := db.Scopes(scopes.WithID(guestID)).First(&guest).Error; err != nil {
		return nil, notFoundOr(err, "guest not found")
	}
	var voucherIDs []uuid.UUID
	err := db.Model(&models.VoucherClaim{}).
		Where("guest_id = ? AND status <> ?", guest.ID, types.CLAIM_USED).
		Distinct().
		Pluck("voucher_id", &voucherIDs).
		Error
	if err != nil {
		return nil, internal("list voucher claims", err)
	}
	vouchers := []models.Voucher{}
	if len(voucherIDs) == 0 {
		return vouchers, nil
	}
	err = db.Scopes(scopes.WithIDs(voucherIDs...), usableAt(s.now())).
		Order("valid_until asc").
		Find(&vouchers).
		Error
	if err != nil {
		return nil, internal("list usable vouchers", err)
	}
	return vouchers, nil
}

func (s *LoyaltyService) GetUsableVoucher(ctx context.Context, guestID, voucherID uuid.UUID) (*models.Voucher, error) {
	db := s.db.WithContext(ctx)
	var claims int64
	err := db.Model(&models.VoucherClaim{}).
		Where("guest_id = ? AND voucher_id = ? AND status <> ?", guestID, voucherID, types.CLAIM_USED).
		Count(&claims).
		Error
	if err != nil {
		return nil, internal("find voucher claim", err)
	}
	if claims == 0 {
		return nil, errs.NotFound("Voucher not found or not available")
	}
	var v models.Voucher
	if err := db.Scopes(scopes.WithID(voucherID), usableAt(s.now())).First(&v).Error; err != nil {
		return nil, notFoundOr(err, "Voucher not found or not available")
	}
	return &v, nil
}

func (s *LoyaltyService) ListVouchersByType(ctx context.Context, voucherType string) ([]models.Voucher, error) {
	vouchers := []models.Voucher{}
	err := s.db.WithContext(ctx).
		Scopes(usableAt(s.now())).
		Where("type = ?", voucherType).
		Order("price asc").
		Find(&vouchers).
		Error
	if err != nil {
		return nil, internal("list vouchers", err)
	}
	return vouchers, nil
}

func (s *LoyaltyService) GetBuyableVoucher(ctx context.Context, id uuid.UUID) (*models.Voucher, error) {
	var v models.Voucher
	err := s.db.WithContext(ctx).
		Scopes(scopes.WithID(id), usableAt(s.now())).
		Where("type = ?", types.VOUCHER_BUYABLE).
		First(&v).
		Error
	if err != nil {
		return nil, notFoundOr(err, "Voucher not found or not available")
	}
	return &v, nil
}

// ExpireClaims marks unused claims whose expiry date has passed.
func (s *LoyaltyService) ExpireClaims(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.VoucherClaim{}).
		Where("status = ? AND date_expired < ?", types.CLAIM_UNUSED, s.now()).
		Update("status", types.CLAIM_EXPIRED)
	if res.Error != nil {
		return 0, internal("expire voucher claims", res.Error)
	}
	return res.RowsAffected, nil
}
