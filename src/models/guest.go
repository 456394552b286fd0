package models

import (
	"hbs/src/types"

	"github.com/google/uuid"
)

type User struct {
	Model

	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Role      types.Role `gorm:"default:'guest'" json:"role"`
	Status    string     `gorm:"default:'active'" json:"status"`
}

type Guest struct {
	Model

	UserID       uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `gorm:"index" json:"email"`
	Gender       string     `json:"gender,omitempty"`
	Address      string     `json:"address,omitempty"`
	MobileNumber string     `json:"mobileNumber,omitempty"`
	MembershipID *uuid.UUID `gorm:"type:uuid" json:"membership_id,omitempty"`
	Points       int        `gorm:"not null;check:chk_guests_points,points >= 0" json:"points"`
	CheckinCount int        `gorm:"not null" json:"checkin_count"`

	User         *User          `gorm:"foreignKey:UserID" json:"-"`
	Membership   *Membership    `gorm:"foreignKey:MembershipID" json:"membership,omitempty"`
	UserVouchers []VoucherClaim `gorm:"foreignKey:GuestID" json:"user_vouchers,omitempty"`
}

type Membership struct {
	Model

	MembershipName    string `gorm:"not null" json:"membership_name"`
	MembershipLevel   int    `gorm:"not null;index" json:"membership_level"`
	CheckInThreshold  int    `json:"check_in_threshold"`
	CheckInPoints     int    `json:"check_in_points"`
	BookingPoints     int    `json:"booking_points"`
	ReservationPoints int    `json:"reservation_points"`
}
