package models

import (
	"hbs/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model carries the opaque identifier every collection is keyed by.
type Model struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`

	types.Timestamps
}

func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Membership{},
		&Guest{},
		&Feature{},
		&RoomType{},
		&RoomInstance{},
		&Voucher{},
		&VoucherClaim{},
		&Transaction{},
		&AuditEntry{},
		&Review{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
