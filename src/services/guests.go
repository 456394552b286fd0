package services

import (
	"context"
	"errors"
	"hbs/src/config"
	"hbs/src/errs"
	"hbs/src/models"
	"hbs/src/models/scopes"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateGuestInput struct {
	UserID       uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	Gender       string
	Address      string
	MobileNumber string
}

type GuestService struct {
	db *gorm.DB
}

func NewGuestService(db *gorm.DB) *GuestService {
	return &GuestService{db: db}
}

// CreateGuestForUser creates the single guest profile of a user, enrolled in the lowest
// membership tier with the starting points balance.
func (s *GuestService) CreateGuestForUser(ctx context.Context, in CreateGuestInput) (*models.Guest, error) {
	if in.UserID == uuid.Nil {
		return nil, errs.Validation("user id is required")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, errs.Validation("first and last name are required")
	}
	var guest models.Guest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Scopes(scopes.WithID(in.UserID)).First(&user).Error; err != nil {
			return notFoundOr(err, "user not found")
		}
		var existing int64
		if err := tx.Model(&models.Guest{}).Where("user_id = ?", user.ID).Count(&existing).Error; err != nil {
			return internal("count guests", err)
		}
		if existing > 0 {
			return errs.Conflict("guest profile already exists")
		}
		email := in.Email
		if email == "" {
			email = user.Email
		}
		guest = models.Guest{
			UserID:       user.ID,
			FirstName:    strings.TrimSpace(in.FirstName),
			LastName:     strings.TrimSpace(in.LastName),
			Email:        email,
			Gender:       in.Gender,
			Address:      in.Address,
			MobileNumber: in.MobileNumber,
			Points:       config.DEFAULT_GUEST_POINTS,
		}
		var baseline models.Membership
		err := tx.Order("membership_level asc").First(&baseline).Error
		switch {
		case err == nil:
			guest.MembershipID = &baseline.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return internal("find baseline membership", err)
		}
		if err := tx.Create(&guest).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Conflict("guest profile already exists")
			}
			return internal("create guest", err)
		}
		return nil
	})
	if err != nil {
		return nil, errs.Internal(err)
	}
	return &guest, nil
}

func (s *GuestService) GetGuest(ctx context.Context, id uuid.UUID) (*models.Guest, error) {
	var guest models.Guest
	if err := s.db.WithContext(ctx).Preload("Membership").Scopes(scopes.WithID(id)).First(&guest).Error; err != nil {
		return nil, notFoundOr(err, "guest not found")
	}
	return &guest, nil
}

func (s *GuestService) GetGuestByUserID(ctx context.Context, userID uuid.UUID) (*models.Guest, error) {
	var guest models.Guest
	if err := s.db.WithContext(ctx).Preload("Membership").Where("user_id = ?", userID).First(&guest).Error; err != nil {
		return nil, notFoundOr(err, "guest not found")
	}
	return &guest, nil
}

func (s *GuestService) GetGuestByEmail(ctx context.Context, email string) (*models.Guest, error) {
	var guest models.Guest
	err := s.db.WithContext(ctx).
		Preload("Membership").
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&guest).
		Error
	if err != nil {
		return nil, notFoundOr(err, "guest not found")
	}
	return &guest, nil
}

func (s *GuestService) UpdateContact(ctx context.Context, guestID uuid.UUID, address, mobileNumber string) (*models.Guest, error) {
	address, mobileNumber = strings.TrimSpace(address), strings.TrimSpace(mobileNumber)
	if address == "" || mobileNumber == "" {
		return nil, errs.Validation("address and mobile number are required")
	}
	res := s.db.WithContext(ctx).
		Model(&models.Guest{}).
		Scopes(scopes.WithID(guestID)).
		Updates(map[string]any{"address": address, "mobile_number": mobileNumber})
	if res.Error != nil {
		return nil, internal("update guest contact", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NotFound("guest not found")
	}
	return s.GetGuest(ctx, guestID)
}
