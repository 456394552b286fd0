package models

import (
	"hbs/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StayDetails struct {
	ExpectedCheckin  time.Time  `gorm:"not null;index" json:"expected_checkin"`
	ExpectedCheckout time.Time  `gorm:"not null;index" json:"expected_checkout"`
	ActualCheckin    *time.Time `json:"actual_checkin,omitempty"`
	ActualCheckout   *time.Time `json:"actual_checkout,omitempty"`
	GuestNum         int        `json:"guest_num"`
	StayHours        int        `json:"stay_hours"`
	TimeAllowance    int        `json:"time_allowance"`
}

type TransactionMeta struct {
	OriginalRate float64 `json:"original_rate"`
	Discount     float64 `json:"discount"`
	ChangeGiven  float64 `json:"change_given"`
}

type Transaction struct {
	Model

	TransactionType types.TransactionType   `gorm:"not null" json:"transaction_type"`
	GuestID         uuid.UUID               `gorm:"type:uuid;index;not null" json:"guest_id"`
	EmployeeID      *uuid.UUID              `gorm:"type:uuid" json:"employee_id,omitempty"`
	RoomID          uuid.UUID               `gorm:"type:uuid;index;not null" json:"room_id"`
	VoucherID       *uuid.UUID              `gorm:"type:uuid" json:"voucher_id,omitempty"`
	Payments        types.Payments          `gorm:"type:jsonb" json:"payment"`
	Stay            StayDetails             `gorm:"embedded;embeddedPrefix:stay_" json:"stay_details"`
	CurrentStatus   types.TransactionStatus `gorm:"index;not null" json:"current_status"`
	Meta            TransactionMeta         `gorm:"embedded;embeddedPrefix:meta_" json:"meta"`
	Version         int                     `gorm:"not null;default:1" json:"-"`

	AuditLog []AuditEntry `gorm:"foreignKey:TransactionID" json:"audit_log"`
}

// AuditEntry rows are only ever inserted; seq orders them per transaction.
type AuditEntry struct {
	ID            uuid.UUID `gorm:"primarykey;type:uuid" json:"-"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_audit_transaction_seq" json:"-"`
	Seq           int       `gorm:"not null;uniqueIndex:idx_audit_transaction_seq" json:"seq"`
	Action        string    `gorm:"not null" json:"action"`
	ActorID       uuid.UUID `gorm:"type:uuid" json:"by"`
	Timestamp     time.Time `gorm:"not null" json:"timestamp"`
	PointsEarned  int       `json:"points_earned"`
}

func (AuditEntry) TableName() string {
	return "transaction_audit_entries"
}

func (a *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (t *Transaction) IsOwnedBy(guestID uuid.UUID) bool {
	return t.GuestID == guestID
}

// LastSeq is the sequence number of the newest audit entry, 0 when none are loaded.
func (t *Transaction) LastSeq() int {
	last := 0
	for _, e := range t.AuditLog {
		if e.Seq > last {
			last = e.Seq
		}
	}
	return last
}
