package services

import (
	"context"
	"hbs/src/models"
	"hbs/src/models/scopes"
	"hbs/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultBedType = "Double"

type Amenities struct {
	BedType string `json:"bedType"`
	Wifi    bool   `json:"wifi"`
	TV      bool   `json:"tv"`
}

type RoomTypeView struct {
	RoomType     models.RoomType
	Amenities    Amenities
	FeatureNames []string
}

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// DeriveAmenities folds the tagged capabilities of the active features into amenity flags.
// A bed feature replaces the default bed type with its own name.
func DeriveAmenities(features []models.Feature) Amenities {
	a := Amenities{BedType: DefaultBedType}
	for _, f := range features {
		if f.Status != "" && f.Status != types.FEATURE_ACTIVE {
			continue
		}
		switch f.Capability {
		case types.CAPABILITY_BED:
			a.BedType = f.FeatureName
		case types.CAPABILITY_WIFI:
			a.Wifi = true
		case types.CAPABILITY_TV:
			a.TV = true
		}
	}
	return a
}

func NewRoomTypeView(rt models.RoomType) RoomTypeView {
	names := []string{}
	for _, f := range rt.Features {
		if f.Status == types.FEATURE_ACTIVE {
			names = append(names, f.FeatureName)
		}
	}
	return RoomTypeView{
		RoomType:     rt,
		Amenities:    DeriveAmenities(rt.Features),
		FeatureNames: names,
	}
}

func activeFeatures(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", types.FEATURE_ACTIVE).Order("feature_name asc")
}

func (s *CatalogService) ListActiveRoomTypes(ctx context.Context) ([]RoomTypeView, error) {
	var roomTypes []models.RoomType
	err := s.db.WithContext(ctx).
		Scopes(scopes.WithActiveStatus).
		Preload("Features", activeFeatures).
		Order("type_name asc").
		Find(&roomTypes).
		Error
	if err != nil {
		return nil, internal("list room types", err)
	}
	views := make([]RoomTypeView, 0, len(roomTypes))
	for _, rt := range roomTypes {
		views = append(views, NewRoomTypeView(rt))
	}
	return views, nil
}

func (s *CatalogService) GetActiveRoomTypeByID(ctx context.Context, id uuid.UUID) (*RoomTypeView, error) {
	var rt models.RoomType
	err := s.db.WithContext(ctx).
		Scopes(scopes.WithID(id), scopes.WithActiveStatus).
		Preload("Features", activeFeatures).
		First(&rt).
		Error
	if err != nil {
		return nil, notFoundOr(err, "room type not found")
	}
	view := NewRoomTypeView(rt)
	return &view, nil
}

func (s *CatalogService) GetRoomInstance(ctx context.Context, id uuid.UUID) (*models.RoomInstance, error) {
	var instance models.RoomInstance
	if err := s.db.WithContext(ctx).Scopes(scopes.WithID(id)).First(&instance).Error; err != nil {
		return nil, notFoundOr(err, "room instance not found")
	}
	return &instance, nil
}

func (s *CatalogService) GetRoomTypeForInstance(ctx context.Context, instanceID uuid.UUID) (*models.RoomType, error) {
	instance, err := s.GetRoomInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	var rt models.RoomType
	err = s.db.WithContext(ctx).
		Scopes(scopes.WithID(instance.RoomTypeID)).
		Preload("Features", activeFeatures).
		First(&rt).
		Error
	if err != nil {
		return nil, notFoundOr(err, "room type not found")
	}
	return &rt, nil
}
