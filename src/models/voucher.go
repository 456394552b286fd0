package models

import (
	"hbs/src/types"
	"time"

	"github.com/google/uuid"
)

type Voucher struct {
	Model

	Name               string     `gorm:"not null" json:"name"`
	Description        string     `json:"description"`
	Type               string     `gorm:"index;not null" json:"type"`
	Value              float64    `json:"value"`
	ValueType          string     `json:"value_type"`
	MembershipRequired *uuid.UUID `gorm:"type:uuid" json:"membership_required,omitempty"`
	ValidFrom          time.Time  `json:"valid_from"`
	ValidUntil         time.Time  `json:"valid_until"`
	IsActive           bool       `gorm:"not null" json:"is_active"`
	Price              int        `json:"price"`
}

// Usable reports whether the voucher can be claimed or redeemed at now.
func (v *Voucher) Usable(now time.Time) bool {
	return v.IsActive && !now.Before(v.ValidFrom) && !now.After(v.ValidUntil)
}

func (v *Voucher) IsBuyable() bool {
	return v.Type == types.VOUCHER_BUYABLE
}

type VoucherClaim struct {
	Model

	GuestID     uuid.UUID         `gorm:"type:uuid;index;not null" json:"guest_id"`
	VoucherID   uuid.UUID         `gorm:"type:uuid;index;not null" json:"voucher_id"`
	Status      types.ClaimStatus `gorm:"index;not null" json:"status"`
	DateClaimed time.Time         `json:"date_claimed"`
	DateExpired time.Time         `json:"date_expired"`

	Voucher *Voucher `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
}
