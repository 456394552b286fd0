package services

import (
	"errors"
	"hbs/src/errs"
	"hbs/src/models"
	"hbs/src/types"
	"time"

	"github.com/google/uuid"
)

func (s *ServiceSuite) seedStay(ri *models.RoomInstance, g *models.Guest, in, out time.Time, status types.TransactionStatus) *models.Transaction {
	t := models.Transaction{
		TransactionType: types.TRANSACTION_BOOKING,
		GuestID:         g.ID,
		RoomID:          ri.ID,
		Stay:            models.StayDetails{ExpectedCheckin: in, ExpectedCheckout: out, GuestNum: 2, StayHours: 12, TimeAllowance: 4},
		CurrentStatus:   status,
		Version:         1,
	}
	s.Require().NoError(s.DB.Create(&t).Error)
	return &t
}

func (s *ServiceSuite) TestFindAvailableInstanceOverlap() {
	rt := s.seedRoomType("A", types.ROOM_TYPE_ACTIVE)
	r101 := s.seedInstance(rt, 101)
	g := s.seedGuest(300)
	s.seedStay(r101, g, at("2024-06-01T14:00"), at("2024-06-02T02:00"), types.TRANSACTION_PENDING)

	svc := NewAvailabilityService(s.DB)
	_, err := svc.FindAvailableInstance(s.ctx, rt.ID, at("2024-06-01T20:00"), at("2024-06-02T04:00"))
	s.True(errors.Is(err, errs.ErrNoneAvailable))
	s.Equal(errs.KindConflict, errs.KindOf(err))

	got, err := svc.FindAvailableInstance(s.ctx, rt.ID, at("2024-06-02T02:00"), at("2024-06-02T14:00"))
	s.Require().NoError(err)
	s.Equal(r101.ID, got.ID)

	got, err = svc.FindAvailableInstance(s.ctx, rt.ID, at("2024-06-01T02:00"), at("2024-06-01T14:00"))
	s.Require().NoError(err)
	s.Equal(r101.ID, got.ID)

	_, err = svc.FindAvailableInstance(s.ctx, rt.ID, at("2024-05-31T00:00"), at("2024-06-03T00:00"))
	s.True(errors.Is(err, errs.ErrNoneAvailable))
}

func (s *ServiceSuite) TestFindAvailableInstancePicksFirstFreeInRoomOrder() {
	rt := s.seedRoomType("A", types.ROOM_TYPE_ACTIVE)
	r102 := s.seedInstance(rt, 102)
	r101 := s.seedInstance(rt, 101)
	r103 := s.seedInstance(rt, 103)
	r103.Status = types.ROOM_MAINTENANCE
	s.Require().NoError(s.DB.Save(r103).Error)
	g := s.seedGuest(300)
	s.seedStay(r101, g, at("2024-06-01T14:00"), at("2024-06-02T02:00"), types.TRANSACTION_CONFIRMED)

	svc := NewAvailabilityService(s.DB)
	got, err := svc.FindAvailableInstance(s.ctx, rt.ID, at("2024-06-01T20:00"), at("2024-06-02T04:00"))
	s.Require().NoError(err)
	s.Equal(r102.ID, got.ID)

	got, err = svc.FindAvailableInstance(s.ctx, rt.ID, at("2024-06-05T20:00"), at("2024-06-06T04:00"))
	s.Require().NoError(err)
	s.Equal(r101.ID, got.ID)
}

func (s *ServiceSuite) TestFindAvailableInstanceIgnoresCancelled() {
	rt := s.seedRoomType("A", types.ROOM_TYPE_ACTIVE)
	r101 := s.seedInstance(rt, 101)
	g := s.seedGuest(300)
	s.seedStay(r101, g, at("2024-06-01T14:00"), at("2024-06-02T02:00"), types.TRANSACTION_CANCELLED)

	got, err := NewAvailabilityService(s.DB).FindAvailableInstance(s.ctx, rt.ID, at("2024-06-01T20:00"), at("2024-06-02T04:00"))
	s.Require().NoError(err)
	s.Equal(r101.ID, got.ID)
}

func (s *ServiceSuite) TestFindAvailableInstanceInvalidRequests() {
	active := s.seedRoomType("A", types.ROOM_TYPE_ACTIVE)
	inactive := s.seedRoomType("B", types.ROOM_TYPE_INACTIVE)
	s.seedInstance(inactive, 201)
	svc := NewAvailabilityService(s.DB)

	_, err := svc.FindAvailableInstance(s.ctx, active.ID, at("2024-06-02T00:00"), at("2024-06-01T00:00"))
	s.requireKind(err, errs.KindValidation)
	_, err = svc.FindAvailableInstance(s.ctx, active.ID, at("2024-06-01T00:00"), at("2024-06-01T00:00"))
	s.requireKind(err, errs.KindValidation)

	_, err = svc.FindAvailableInstance(s.ctx, inactive.ID, at("2024-06-01T00:00"), at("2024-06-02T00:00"))
	s.requireKind(err, errs.KindNotFound)
	_, err = svc.FindAvailableInstance(s.ctx, uuid.New(), at("2024-06-01T00:00"), at("2024-06-02T00:00"))
	s.requireKind(err, errs.KindNotFound)

	_, err = svc.FindAvailableInstance(s.ctx, active.ID, at("2024-06-01T00:00"), at("2024-06-02T00:00"))
	s.True(errors.Is(err, errs.ErrNoneAvailable))
}

func (s *ServiceSuite) TestParseStayWindow() {
	in, out, err := ParseStayWindow("1717250400000", "2024-06-02T02:00:00Z")
	s.Require().NoError(err)
	s.Equal(at("2024-06-01T14:00"), in)
	s.Equal(at("2024-06-02T02:00"), out)

	_, _, err = ParseStayWindow("yesterday", "2024-06-02")
	s.requireKind(err, errs.KindValidation)
	_, _, err = ParseStayWindow("2024-06-02", "2024-06-01")
	s.requireKind(err, errs.KindValidation)
}
