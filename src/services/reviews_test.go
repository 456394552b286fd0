package services

import (
	"encoding/json"
	"hbs/src/errs"
	"hbs/src/models"
	"hbs/src/types"
	"strings"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
)

func (s *ServiceSuite) seedReview(rt *models.RoomType, g *models.Guest, rate int, status types.ReviewStatus) {
	r := models.Review{Rate: rate, RoomTypeID: rt.ID, GuestID: g.ID, Comment: "ok", Status: status}
	s.Require().NoError(s.DB.Create(&r).Error)
}

func (s *ServiceSuite) TestGetRatingStats() {
	x := s.seedRoomType("X", types.ROOM_TYPE_ACTIVE)
	g := s.seedGuest(300)
	for _, rate := range []int{4, 5, 3} {
		s.seedReview(x, g, rate, types.REVIEW_PUBLISHED)
	}
	s.seedReview(x, g, 1, types.REVIEW_PENDING)
	s.seedReview(x, g, 1, types.REVIEW_ARCHIVED)
	svc := NewReviewService(s.DB, nil, 0)

	stats, err := svc.GetRatingStats(s.ctx, x.ID)
	s.Require().NoError(err)
	s.Equal(RatingStats{ReviewCount: 3, AverageRating: 4.0}, stats)

	again, err := svc.GetRatingStats(s.ctx, x.ID)
	s.Require().NoError(err)
	s.Equal(stats, again)

	none, err := svc.GetRatingStats(s.ctx, uuid.New())
	s.Require().NoError(err)
	s.Equal(RatingStats{}, none)
}

func (s *ServiceSuite) TestGetRatingStatsRounding() {
	x := s.seedRoomType("X", types.ROOM_TYPE_ACTIVE)
	g := s.seedGuest(300)
	for _, rate := range []int{5, 4, 4} {
		s.seedReview(x, g, rate, types.REVIEW_PUBLISHED)
	}
	stats, err := NewReviewService(s.DB, nil, 0).GetRatingStats(s.ctx, x.ID)
	s.Require().NoError(err)
	s.Equal(4.3, stats.AverageRating)
}

func (s *ServiceSuite) TestGetRatingStatsCached() {
	x := s.seedRoomType("X", types.ROOM_TYPE_ACTIVE)
	g := s.seedGuest(300)
	for _, rate := range []int{4, 5, 3} {
		s.seedReview(x, g, rate, types.REVIEW_PUBLISHED)
	}
	ttl := 10 * time.Minute
	key := StatsCacheKey(x.ID)
	payload, _ := json.Marshal(RatingStats{ReviewCount: 3, AverageRating: 4.0})

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, string(payload), ttl).SetVal("OK")
	mock.ExpectGet(key).SetVal(string(payload))
	svc := NewReviewService(s.DB, rdb, ttl)

	first, err := svc.GetRatingStats(s.ctx, x.ID)
	s.Require().NoError(err)
	second, err := svc.GetRatingStats(s.ctx, x.ID)
	s.Require().NoError(err)
	s.Equal(first, second)
	s.Require().NoError(mock.ExpectationsWereMet())
}

func (s *ServiceSuite) TestAddReviewInvalidatesCache() {
	x := s.seedRoomType("X", types.ROOM_TYPE_ACTIVE)
	g := s.seedGuest(300)
	rdb, mock := redismock.NewClientMock()
	mock.ExpectDel(StatsCacheKey(x.ID)).SetVal(1)
	svc := NewReviewService(s.DB, rdb, time.Minute)

	review, err := svc.AddReview(s.ctx, AddReviewInput{GuestID: g.ID, RoomTypeID: x.ID, Rate: 5, Comment: "  Great stay  "})
	s.Require().NoError(err)
	s.Equal("Great stay", review.Comment)
	s.Equal(types.REVIEW_PUBLISHED, review.Status)
	s.Require().NoError(mock.ExpectationsWereMet())
}

func (s *ServiceSuite) TestAddReviewValidation() {
	x := s.seedRoomType("X", types.ROOM_TYPE_ACTIVE)
	g := s.seedGuest(300)
	svc := NewReviewService(s.DB, nil, 0)

	cases := []AddReviewInput{
		{GuestID: g.ID, RoomTypeID: x.ID, Rate: 0, Comment: "meh"},
		{GuestID: g.ID, RoomTypeID: x.ID, Rate: 6, Comment: "wow"},
		{GuestID: g.ID, RoomTypeID: x.ID, Rate: 3, Comment: "   "},
		{GuestID: g.ID, RoomTypeID: x.ID, Rate: 3, Comment: strings.Repeat("a", 201)},
	}
	for _, in := range cases {
		_, err := svc.AddReview(s.ctx, in)
		s.requireKind(err, errs.KindValidation)
	}
	_, err := svc.AddReview(s.ctx, AddReviewInput{GuestID: g.ID, RoomTypeID: x.ID, Rate: 3, Comment: strings.Repeat("a", 200)})
	s.Require().NoError(err)

	_, err = svc.AddReview(s.ctx, AddReviewInput{GuestID: g.ID, RoomTypeID: uuid.New(), Rate: 3, Comment: "ok"})
	s.requireKind(err, errs.KindNotFound)
	_, err = svc.AddReview(s.ctx, AddReviewInput{GuestID: uuid.New(), RoomTypeID: x.ID, Rate: 3, Comment: "ok"})
	s.requireKind(err, errs.KindNotFound)
}

func (s *ServiceSuite) TestGetTopRoomType() {
	svc := NewReviewService(s.DB, nil, 0)
	_, err := svc.GetTopRoomType(s.ctx)
	s.requireKind(err, errs.KindNotFound)
	s.Equal("no reviewed room types", errs.PublicMessage(err))

	a := s.seedRoomType("A", types.ROOM_TYPE_ACTIVE)
	b := s.seedRoomType("B", types.ROOM_TYPE_ACTIVE)
	g := s.seedGuest(300)
	s.seedReview(a, g, 5, types.REVIEW_PUBLISHED)
	s.seedReview(b, g, 2, types.REVIEW_PUBLISHED)
	s.seedReview(b, g, 3, types.REVIEW_PUBLISHED)
	s.seedReview(a, g, 1, types.REVIEW_ARCHIVED)
	s.seedReview(a, g, 1, types.REVIEW_ARCHIVED)

	top, err := svc.GetTopRoomType(s.ctx)
	s.Require().NoError(err)
	s.Equal(b.ID, top.RoomType.ID)
	s.Equal(int64(2), top.ReviewCount)
	s.Equal(2.5, top.AverageRating)
	s.Equal(500.0, top.Rate)

	s.seedReview(a, g, 4, types.REVIEW_PUBLISHED)
	top, err = svc.GetTopRoomType(s.ctx)
	s.Require().NoError(err)
	lowest := a.ID
	if strings.Compare(b.ID.String(), a.ID.String()) < 0 {
		lowest = b.ID
	}
	s.Equal(lowest, top.RoomType.ID)
}

func (s *ServiceSuite) TestGetTopRoomTypeMissingRoomType() {
	g := s.seedGuest(300)
	ghost := models.Review{Rate: 4, RoomTypeID: uuid.New(), GuestID: g.ID, Comment: "gone", Status: types.REVIEW_PUBLISHED}
	s.Require().NoError(s.DB.Create(&ghost).Error)
	_, err := NewReviewService(s.DB, nil, 0).GetTopRoomType(s.ctx)
	s.requireKind(err, errs.KindNotFound)
	s.Equal("room type not found", errs.PublicMessage(err))
}

func (s *ServiceSuite) TestStatsForRoomTypesAndListReviews() {
	a := s.seedRoomType("A", types.ROOM_TYPE_ACTIVE)
	b := s.seedRoomType("B", types.ROOM_TYPE_ACTIVE)
	g := s.seedGuest(300)
	s.seedReview(a, g, 4, types.REVIEW_PUBLISHED)
	s.seedReview(a, g, 5, types.REVIEW_PUBLISHED)
	s.seedReview(a, g, 1, types.REVIEW_PENDING)
	svc := NewReviewService(s.DB, nil, 0)

	stats, err := svc.StatsForRoomTypes(s.ctx, []uuid.UUID{a.ID, b.ID})
	s.Require().NoError(err)
	s.Equal(RatingStats{ReviewCount: 2, AverageRating: 4.5}, stats[a.ID])
	s.Equal(RatingStats{}, stats[b.ID])

	reviews, err := svc.ListReviews(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Len(reviews, 2)
	s.NotNil(reviews[0].Guest)
}
