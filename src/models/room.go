package models

import (
	"hbs/src/errs"
	"hbs/src/types"
	"hbs/src/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Rates struct {
	Checkin12h     float64 `gorm:"column:checkin_12h" json:"checkin_12h"`
	Checkin24h     float64 `gorm:"column:checkin_24h" json:"checkin_24h"`
	Reservation12h float64 `gorm:"column:reservation_12h" json:"reservation_12h"`
	Reservation24h float64 `gorm:"column:reservation_24h" json:"reservation_24h"`
}

func (r Rates) Valid() bool {
	return r.Checkin12h > 0 && r.Checkin24h > 0 && r.Reservation12h > 0 && r.Reservation24h > 0
}

type RoomType struct {
	Model

	TypeName    string               `gorm:"not null" json:"type_name"`
	Description string               `json:"description"`
	GuestNum    int                  `gorm:"not null" json:"guest_num"`
	Status      types.RoomTypeStatus `gorm:"index;default:'active'" json:"status"`
	Rates       Rates                `gorm:"embedded;embeddedPrefix:rate_" json:"rates"`
	Images      types.StringArray    `gorm:"type:jsonb" json:"images"`

	Features  []Feature      `gorm:"many2many:room_type_features;" json:"room_features,omitempty"`
	Instances []RoomInstance `gorm:"foreignKey:RoomTypeID" json:"-"`
}

// BeforeSave keeps every stored room type bookable: all four rates positive and room for a guest.
func (r *RoomType) BeforeSave(tx *gorm.DB) error {
	if !r.Rates.Valid() {
		return errs.Validation("room type rates must be greater than zero")
	}
	if r.GuestNum < 1 {
		return errs.Validation("room type guest_num must be at least 1")
	}
	return nil
}

func (r *RoomType) IsActive() bool {
	return r.Status == types.ROOM_TYPE_ACTIVE
}

type Feature struct {
	Model

	FeatureName string              `gorm:"not null" json:"feature_name"`
	FeatureIcon string              `json:"feature_icon"`
	Status      types.FeatureStatus `gorm:"default:'active'" json:"status"`
	Slug        string              `gorm:"index" json:"slug"`
	Capability  types.Capability    `gorm:"default:'none'" json:"capability"`
}

// BeforeSave tags the feature once, at ingestion, so reads never re-parse free text.
func (f *Feature) BeforeSave(tx *gorm.DB) error {
	f.Slug = utils.Slugify(f.FeatureName)
	f.Capability = utils.ClassifyFeature(f.FeatureName)
	return nil
}

type RoomInstance struct {
	Model

	RoomNo     int              `gorm:"uniqueIndex;not null" json:"room_no"`
	RoomTypeID uuid.UUID        `gorm:"type:uuid;index;not null" json:"room_type"`
	Status     types.RoomStatus `gorm:"default:'available'" json:"status"`

	RoomType *RoomType `gorm:"foreignKey:RoomTypeID" json:"-"`
}
