// Package services holds the booking core: catalog reads, availability resolution, the
// transaction lifecycle, the loyalty ledger, review aggregation and the guest directory.
package services

import (
	"errors"
	"hbs/src/errs"
	"hbs/src/types"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the authenticated caller of a state-changing operation. For guests ID is the
// guest id; for staff it is the user id.
type Actor struct {
	ID   uuid.UUID
	Role types.Role
}

func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

// Clock is embedded by services that stamp records with the current time.
type Clock struct {
	Now func() time.Time
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return types.Normalize(time.Now())
	}
	return types.Normalize(c.Now())
}

// notFoundOr maps a missing row to NotFound and anything else to Internal.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(msg)
	}
	log.Printf("[store] %s: %s\n", msg, err.Error())
	return errs.Internal(err)
}

func internal(op string, err error) error {
	var e *errs.Error
	if !errors.As(err, &e) {
		log.Printf("[store] %s: %s\n", op, err.Error())
	}
	return errs.Internal(err)
}
