package scopes

import (
	"hbs/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func WithID(id uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithIDs(ids ...uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", ids)
	}
}

func WithActiveStatus(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "active")
}

func WithPublishedStatus(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", types.REVIEW_PUBLISHED)
}

func NotCancelled(db *gorm.DB) *gorm.DB {
	return db.Where("current_status <> ?", types.TRANSACTION_CANCELLED)
}

func ForRoom(roomID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("room_id = ?", roomID)
	}
}
