package services

import (
	"hbs/src/errs"
	"hbs/src/models"
	"hbs/src/types"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingFixture struct {
	roomType *models.RoomType
	room     *models.RoomInstance
	guest    *models.Guest
	staff    Actor
}

func (s *ServiceSuite) newBookingFixture() bookingFixture {
	rt := s.seedRoomType("A", types.ROOM_TYPE_ACTIVE)
	employee := s.seedUser(types.ROLE_EMPLOYEE)
	return bookingFixture{
		roomType: rt,
		room:     s.seedInstance(rt, 101),
		guest:    s.seedGuest(300),
		staff:    Actor{ID: employee.ID, Role: types.ROLE_EMPLOYEE},
	}
}

func (f bookingFixture) guestActor() Actor {
	return Actor{ID: f.guest.ID, Role: types.ROLE_GUEST}
}

func (f bookingFixture) input(kind types.TransactionType, in, out time.Time) CreateTransactionInput {
	return CreateTransactionInput{
		GuestID:         f.guest.ID,
		RoomID:          f.room.ID,
		TotalAmount:     500,
		ReferenceNo:     "1234 5678 90123",
		CheckIn:         in,
		CheckOut:        out,
		TransactionType: kind,
		BasePrice:       500,
	}
}

func (s *ServiceSuite) newTransactionService() (*TransactionService, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewTransactionService(s.DB, NewLoyaltyService(s.DB), pub)
	svc.Clock = s.clock()
	svc.loyalty.Clock = s.clock()
	return svc, pub
}

func (s *ServiceSuite) TestCreateTransaction() {
	f := s.newBookingFixture()
	svc, pub := s.newTransactionService()

	t, err := svc.Create(s.ctx, f.input(types.TRANSACTION_BOOKING, at("2024-06-01T14:00"), at("2024-06-02T02:00")))
	s.Require().NoError(err)
	s.Equal(types.TRANSACTION_PENDING, t.CurrentStatus)
	s.Equal(12, t.Stay.StayHours)
	s.Equal(4, t.Stay.TimeAllowance)
	s.Equal(2, t.Stay.GuestNum)
	s.Equal(500.0, t.Meta.OriginalRate)
	s.Require().Len(t.Payments, 1)
	s.Equal("gcash", t.Payments[0].Method)
	s.Equal("PHP", t.Payments[0].Currency)
	s.Equal("pending", t.Payments[0].Status)
	s.Equal("1234567890123", t.Payments[0].Details.ReferenceNo)

	stored, err := svc.Get(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(types.TRANSACTION_PENDING, stored.CurrentStatus)
	s.Require().Len(stored.AuditLog, 1)
	s.Equal("booked", stored.AuditLog[0].Action)
	s.Equal(1, stored.AuditLog[0].Seq)
	s.Equal(f.guest.ID, stored.AuditLog[0].ActorID)
	s.Equal(0, stored.AuditLog[0].PointsEarned)
	s.True(stored.Stay.ExpectedCheckin.Equal(at("2024-06-01T14:00")))

	s.Equal([]string{"transaction.created"}, pub.eventTypes())
}

func (s *ServiceSuite) TestCreateReservationLabelsFirstAuditEntry() {
	f := s.newBookingFixture()
	svc, _ := s.newTransactionService()
	t, err := svc.Create(s.ctx, f.input(types.TRANSACTION_RESERVATION, at("2024-06-01T14:00"), at("2024-06-02T14:00")))
	s.Require().NoError(err)
	s.Equal(types.TRANSACTION_PENDING, t.CurrentStatus)
	s.Equal("reserved", t.AuditLog[0].Action)
	s.Equal(24, t.Stay.StayHours)
}

func (s *ServiceSuite) TestCreateTransactionValidation() {
	f := s.newBookingFixture()
	svc, pub := s.newTransactionService()
	in, out := at("2024-06-01T14:00"), at("2024-06-02T02:00")

	bad := f.input(types.TRANSACTION_BOOKING, in, out)
	bad.ReferenceNo = "123456789012"
	_, err := svc.Create(s.ctx, bad)
	s.requireKind(err, errs.KindValidation)

	bad = f.input("Walkin", in, out)
	_, err = svc.Create(s.ctx, bad)
	s.requireKind(err, errs.KindValidation)

	_, err = svc.Create(s.ctx, f.input(types.TRANSACTION_BOOKING, out, in))
	s.requireKind(err, errs.KindValidation)

	bad = f.input(types.TRANSACTION_BOOKING, in, out)
	bad.GuestID = uuid.New()
	_, err = svc.Create(s.ctx, bad)
	s.requireKind(err, errs.KindNotFound)

	bad = f.input(types.TRANSACTION_BOOKING, in, out)
	bad.RoomID = uuid.New()
	_, err = svc.Create(s.ctx, bad)
	s.requireKind(err, errs.KindNotFound)

	var count int64
	s.DB.Model(&models.Transaction{}).Count(&count)
	s.Equal(int64(0), count)
	s.Empty(pub.eventTypes())
}

func (s *ServiceSuite) TestCreateTransactionRejectsInactiveRoomType() {
	f := s.newBookingFixture()
	s.Require().NoError(s.DB.Model(f.roomType).Update("status", types.ROOM_TYPE_INACTIVE).Error)
	svc, _ := s.newTransactionService()
	_, err := svc.Create(s.ctx, f.input(types.TRANSACTION_BOOKING, at("2024-06-01T14:00"), at("2024-06-02T02:00")))
	s.requireKind(err, errs.KindNotFound)
}

func (s *ServiceSuite) TestCreateTransactionRejectsOverlap() {
	f := s.newBookingFixture()
	svc, _ := s.newTransactionService()
	_, err := svc.Create(s.ctx, f.input(types.TRANSACTION_BOOKING, at("2024-06-01T14:00"), at("2024-06-02T02:00")))
	s.Require().NoError(err)

	_, err = svc.Create(s.ctx, f.input(types.TRANSACTION_BOOKING, at("2024-06-01T20:00"), at("2024-06-02T04:00")))
	s.requireKind(err, errs.KindConflict)
	s.Equal("room is no longer available", errs.PublicMessage(err))

	_, err = svc.Create(s.ctx, f.input(types.TRANSACTION_BOOKING, at("2024-06-02T02:00"), at("2024-06-02T14:00")))
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestCreateTransactionRedeemsVoucher() {
	f := s.newBookingFixture()
	v := s.seedVoucher("promo", 0, s.Now.Add(-time.Hour), s.Now.Add(72*time.Hour), true)
	claim := s.seedClaim(f.guest, v, types.CLAIM_UNUSED)
	svc, _ := s.newTransactionService()

	in := f.input(types.TRANSACTION_BOOKING, at("2024-06-01T14:00"), at("2024-06-02T02:00"))
	in.VoucherID = &v.ID
	t, err := svc.Create(s.ctx, in)
	s.Require().NoError(err)
	s.Require().NotNil(t.VoucherID)

	var stored models.VoucherClaim
	s.Require().NoError(s.DB.First(&stored, "id = ?", claim.ID).Error)
	s.Equal(types.CLAIM_USED, stored.Status)

	in = f.input(types.TRANSACTION_BOOKING, at("2024-06-10T14:00"), at("2024-06-11T02:00"))
	in.VoucherID = &v.ID
	_, err = svc.Create(s.ctx, in)
	s.requireKind(err, errs.KindValidation)
	s.Contains(err.Error(), "no unused claim for this guest")

	_, err = svc.Cancel(s.ctx, t.ID, f.guestActor())
	s.Require().NoError(err)
	s.Require().NoError(s.DB.First(&stored, "id = ?", claim.ID).Error)
	s.Equal(types.CLAIM_UNUSED, stored.Status)
}

func (s *ServiceSuite) TestCreateTransactionRejectsUnusableVoucher() {
	f := s.newBookingFixture()
	expired := s.seedVoucher("promo", 0, s.Now.Add(-72*time.Hour), s.Now.Add(-time.Hour), true)
	s.seedClaim(f.guest, expired, types.CLAIM_UNUSED)
	svc, _ := s.newTransactionService()

	in := f.input(types.TRANSACTION_BOOKING, at("2024-06-01T14:00"), at("2024-06-02T02:00"))
	in.VoucherID = &expired.ID
	_, err := svc.Create(s.ctx, in)
	s.requireKind(err, errs.KindValidation)
	s.Contains(err.Error(), "not valid at this time")

	var count int64
	s.DB.Model(&models.Transaction{}).Count(&count)
	s.Equal(int64(0), count)
}

func (s *ServiceSuite) TestCancelOnlyFromPending() {
	f := s.newBookingFixture()
	svc, pub := s.newTransactionService()
	t, err := svc.Create(s.ctx, f.input(types.TRANSACTION_BOOKING, at("2024-06-01T14:00"), at("2024-06-02T02:00")))
	s.Require().NoError(err)

	_, err = svc.Cancel(s.ctx, t.ID, Actor{ID: uuid.New(), Role: types.ROLE_GUEST})
	s.requireKind(err, errs.KindForbidden)

	cancelled, err := svc.Cancel(s.ctx, t.ID, f.guestActor())
	s.Require().NoError(err)
	s.Equal(types.TRANSACTION_CANCELLED, cancelled.CurrentStatus)
	s.Require().Len(cancelled.AuditLog, 2)
	s.Equal("cancelled", cancelled.AuditLog[1].Action)
	s.Equal(2, cancelled.AuditLog[1].Seq)

	_, err = svc.Cancel(s.ctx, t.ID, f.guestActor())
	s.requireKind(err, errs.KindConflict)

	after, err := svc.Get(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(types.TRANSACTION_CANCELLED, after.CurrentStatus)
	s.Len(after.AuditLog, 2)

	_, err = svc.Cancel(s.ctx, uuid.New(), f.guestActor())
	s.requireKind(err, errs.KindNotFound)

	s.Equal([]string{"transaction.created", "transaction.cancelled"}, pub.eventTypes())
}

func (s *ServiceSuite) TestLifecycleToCompletion() {
	f := s.newBookingFixture()
	svc, pub := s.newTransactionService()
	t, err := svc.Create(s.ctx, f.input(types.TRANSACTION_RESERVATION, at("2024-06-01T14:00"), at("2024-06-02T02:00")))
	s.Require().NoError(err)

	_, err = svc.Accept(s.ctx, t.ID, f.guestActor())
	s.requireKind(err, errs.KindForbidden)
	_, err = svc.Confirm(s.ctx, t.ID, f.staff)
	s.requireKind(err, errs.KindConflict)
	_, err = svc.Checkout(s.ctx, t.ID, f.guestActor())
	s.requireKind(err, errs.KindConflict)

	accepted, err := svc.Accept(s.ctx, t.ID, f.staff)
	s.Require().NoError(err)
	s.Equal(types.TRANSACTION_RESERVED, accepted.CurrentStatus)
	s.Require().NotNil(accepted.EmployeeID)
	s.Equal(f.staff.ID, *accepted.EmployeeID)

	s.Now = s.Now.Add(time.Hour)
	confirmed, err := svc.Confirm(s.ctx, t.ID, f.staff)
	s.Require().NoError(err)
	s.Equal(types.TRANSACTION_CONFIRMED, confirmed.CurrentStatus)
	s.Require().NotNil(confirmed.Stay.ActualCheckin)
	s.True(confirmed.Stay.ActualCheckin.Equal(s.Now))

	_, err = svc.Cancel(s.ctx, t.ID, f.guestActor())
	s.requireKind(err, errs.KindConflict)

	var guest models.Guest
	s.Require().NoError(s.DB.First(&guest, "id = ?", f.guest.ID).Error)
	s.Equal(1, guest.CheckinCount)

	s.Now = s.Now.Add(12 * time.Hour)
	completed, err := svc.Checkout(s.ctx, t.ID, f.guestActor())
	s.Require().NoError(err)
	s.Equal(types.TRANSACTION_COMPLETED, completed.CurrentStatus)
	s.Require().NotNil(completed.Stay.ActualCheckout)

	actions := []string{}
	for i, e := range completed.AuditLog {
		s.Equal(i+1, e.Seq)
		actions = append(actions, e.Action)
	}
	s.Equal([]string{"reserved", "reserved", "confirmed", "completed"}, actions)
	s.Equal(0, completed.AuditLog[3].PointsEarned)
	s.Equal(300, s.guestPoints(f.guest.ID))

	_, err = svc.Cancel(s.ctx, t.ID, f.guestActor())
	s.requireKind(err, errs.KindConflict)

	s.Equal([]string{
		"transaction.created",
		"transaction.reserved",
		"transaction.confirmed",
		"transaction.completed",
	}, pub.eventTypes())
}

func (s *ServiceSuite) TestCheckoutAwardsMembershipPoints() {
	tier := models.Membership{MembershipName: "Silver", MembershipLevel: 1, BookingPoints: 25, ReservationPoints: 10}
	s.Require().NoError(s.DB.Create(&tier).Error)
	f := s.newBookingFixture()
	s.Require().NoError(s.DB.Model(f.guest).Update("membership_id", tier.ID).Error)

	svc, _ := s.newTransactionService()
	svc.Points = MembershipPoints{}
	t, err := svc.Create(s.ctx, f.input(types.TRANSACTION_BOOKING, at("2024-06-01T14:00"), at("2024-06-02T02:00")))
	s.Require().NoError(err)
	_, err = svc.Accept(s.ctx, t.ID, f.staff)
	s.Require().NoError(err)
	_, err = svc.Confirm(s.ctx, t.ID, f.staff)
	s.Require().NoError(err)

	_, err = svc.Checkout(s.ctx, t.ID, Actor{ID: uuid.New(), Role: types.ROLE_GUEST})
	s.requireKind(err, errs.KindForbidden)

	completed, err := svc.Checkout(s.ctx, t.ID, f.guestActor())
	s.Require().NoError(err)
	s.Equal(25, completed.AuditLog[len(completed.AuditLog)-1].PointsEarned)
	s.Equal(325, s.guestPoints(f.guest.ID))
}

func (s *ServiceSuite) TestTransitionRejectsStaleVersion() {
	f := s.newBookingFixture()
	svc, _ := s.newTransactionService()
	t, err := svc.Create(s.ctx, f.input(types.TRANSACTION_BOOKING, at("2024-06-01T14:00"), at("2024-06-02T02:00")))
	s.Require().NoError(err)

	// A competing writer bumps the version after Cancel has read the row and before its update.
	bumped := false
	err = s.DB.Callback().Update().Before("gorm:update").Register("test:bump_version", func(db *gorm.DB) {
		if bumped || db.Statement.Table != "transactions" {
			return
		}
		bumped = true
		err := db.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE transactions SET version = version + 1 WHERE id = ?", t.ID).
			Error
		s.Require().NoError(err)
	})
	s.Require().NoError(err)

	_, err = svc.Cancel(s.ctx, t.ID, f.guestActor())
	s.requireKind(err, errs.KindConflict)
	s.Contains(err.Error(), "modified concurrently")
	s.True(bumped)
	s.Require().NoError(s.DB.Callback().Update().Remove("test:bump_version"))

	stored, err := svc.Get(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(types.TRANSACTION_PENDING, stored.CurrentStatus)
	s.Equal(1, stored.Version)
	s.Len(stored.AuditLog, 1)

	cancelled, err := svc.Cancel(s.ctx, t.ID, f.guestActor())
	s.Require().NoError(err)
	s.Equal(types.TRANSACTION_CANCELLED, cancelled.CurrentStatus)
	s.Equal(2, cancelled.Version)
	s.Len(cancelled.AuditLog, 2)
}

func (s *ServiceSuite) TestListForGuest() {
	f := s.newBookingFixture()
	svc, _ := s.newTransactionService()
	first, err := svc.Create(s.ctx, f.input(types.TRANSACTION_BOOKING, at("2024-06-01T14:00"), at("2024-06-02T02:00")))
	s.Require().NoError(err)
	second, err := svc.Create(s.ctx, f.input(types.TRANSACTION_BOOKING, at("2024-06-05T14:00"), at("2024-06-06T02:00")))
	s.Require().NoError(err)

	list, err := svc.ListForGuest(s.ctx, f.guest.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID)
	s.Equal(first.ID, list[1].ID)
	s.Len(list[0].AuditLog, 1)

	list, err = svc.ListForGuest(s.ctx, uuid.New())
	s.Require().NoError(err)
	s.Empty(list)
}

// The sqlite pool holds a single connection, so these creates commit one after another. This
// covers the overlap re-check inside the create transaction; row locking needs postgres.
func (s *ServiceSuite) TestSerializedCreatesForSameWindowAdmitOne() {
	f := s.newBookingFixture()
	svc, _ := s.newTransactionService()
	in := f.input(types.TRANSACTION_BOOKING, at("2024-06-01T14:00"), at("2024-06-02T02:00"))

	results := make([]error, 5)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Create(s.ctx, in)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.Equal(errs.KindConflict, errs.KindOf(err))
	}
	s.Equal(1, succeeded)
}
