package models

import (
	"hbs/src/types"

	"github.com/google/uuid"
)

type Review struct {
	Model

	Rate       int                `gorm:"not null;check:chk_reviews_rate,rate BETWEEN 1 AND 5" json:"rate"`
	RoomTypeID uuid.UUID          `gorm:"type:uuid;index;not null" json:"room_type"`
	GuestID    uuid.UUID          `gorm:"type:uuid;index;not null" json:"guest_id"`
	Comment    string             `gorm:"size:200" json:"comment"`
	Status     types.ReviewStatus `gorm:"index;default:'published'" json:"status"`

	Guest *Guest `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
}
