package services

import (
	"context"
	"hbs/src/errs"
	"hbs/src/models"
	"hbs/src/models/scopes"
	"hbs/src/types"
	"hbs/src/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityService struct {
	db *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// ParseStayWindow reads a check-in/check-out pair given as epoch milliseconds or ISO-8601.
func ParseStayWindow(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := types.ParseInstant(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, errs.Validation("invalid checkIn")
	}
	out, err := types.ParseInstant(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, errs.Validation("invalid checkOut")
	}
	if err := validateStayWindow(in, out); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

func validateStayWindow(in, out time.Time) error {
	if in.IsZero() || out.IsZero() {
		return errs.Validation("checkIn and checkOut are required")
	}
	if !out.After(in) {
		return errs.Validation("checkOut must be after checkIn")
	}
	return nil
}

// HasConflict reports whether a non-cancelled transaction on the instance overlaps [in, out).
// Pass the surrounding db transaction when the answer must hold until commit.
func HasConflict(tx *gorm.DB, instanceID uuid.UUID, in, out time.Time) (bool, error) {
	var existing []models.Transaction
	err := tx.
		Model(&models.Transaction{}).
		Scopes(scopes.ForRoom(instanceID), scopes.NotCancelled).
		Where("(stay_expected_checkin < ? OR stay_expected_checkout > ?)", out, in).
		Find(&existing).
		Error
	if err != nil {
		return false, err
	}
	for _, t := range existing {
		if utils.Overlaps(in, out, t.Stay.ExpectedCheckin, t.Stay.ExpectedCheckout) {
			return true, nil
		}
	}
	return false, nil
}

// FindAvailableInstance returns the first instance of the room type, in room number order,
// with no overlapping non-cancelled transaction.
func (s *AvailabilityService) FindAvailableInstance(ctx context.Context, roomTypeID uuid.UUID, checkIn, checkOut time.Time) (*models.RoomInstance, error) {
	checkIn, checkOut = types.Normalize(checkIn), types.Normalize(checkOut)
	if err := validateStayWindow(checkIn, checkOut); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var rt models.RoomType
	if err := db.Scopes(scopes.WithID(roomTypeID), scopes.WithActiveStatus).First(&rt).Error; err != nil {
		return nil, notFoundOr(err, "room type not found")
	}

	var instances []models.RoomInstance
	if err := db.Where("room_type_id = ?", rt.ID).Order("room_no asc").Find(&instances).Error; err != nil {
		return nil, internal("list room instances", err)
	}
	for i := range instances {
		conflict, err := HasConflict(db, instances[i].ID, checkIn, checkOut)
		if err != nil {
			return nil, internal("check room conflicts", err)
		}
		if !conflict {
			return &instances[i], nil
		}
	}
	return nil, errs.ErrNoneAvailable
}
