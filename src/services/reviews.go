package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hbs/src/config"
	"hbs/src/errs"
	"hbs/src/models"
	"hbs/src/models/scopes"
	"hbs/src/types"
	"hbs/src/utils"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type RatingStats struct {
	ReviewCount   int64   `json:"reviewCount"`
	AverageRating float64 `json:"averageRating"`
}

type TopRoomType struct {
	RoomType      models.RoomType
	ReviewCount   int64
	AverageRating float64
	Rate          float64
}

type AddReviewInput struct {
	GuestID    uuid.UUID
	RoomTypeID uuid.UUID
	Rate       int
	Comment    string
}

type ReviewService struct {
	db    *gorm.DB
	cache *redis.Client
	ttl   time.Duration
}

// NewReviewService caches rating stats in redis when cache is not nil.
func NewReviewService(db *gorm.DB, cache *redis.Client, ttl time.Duration) *ReviewService {
	return &ReviewService{db: db, cache: cache, ttl: ttl}
}

func StatsCacheKey(roomTypeID uuid.UUID) string {
	return fmt.Sprintf("reviews:stats:%s", roomTypeID.String())
}

type ratingRow struct {
	RoomTypeID    uuid.UUID
	ReviewCount   int64
	AverageRating float64
}

func publishedReviews(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Review{}).Where("status = ?", types.REVIEW_PUBLISHED)
}

const ratingColumns = "room_type_id, COUNT(*) AS review_count, COALESCE(AVG(rate * 1.0), 0) AS average_rating"

// GetRatingStats is the count and one-decimal average of the published reviews of a room type.
func (s *ReviewService) GetRatingStats(ctx context.Context, roomTypeID uuid.UUID) (RatingStats, error) {
	key := StatsCacheKey(roomTypeID)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var stats RatingStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return stats, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("[redis] Error retrieving value for %s: %s\n", key, err.Error())
		}
	}

	var rows []ratingRow
	err := publishedReviews(s.db.WithContext(ctx)).
		Select(ratingColumns).
		Where("room_type_id = ?", roomTypeID).
		Group("room_type_id").
		Scan(&rows).
		Error
	if err != nil {
		return RatingStats{}, internal("aggregate review stats", err)
	}
	stats := RatingStats{}
	if len(rows) > 0 {
		stats = RatingStats{ReviewCount: rows[0].ReviewCount, AverageRating: utils.Round1(rows[0].AverageRating)}
	}

	if s.cache != nil {
		b, _ := json.Marshal(stats)
		if err := s.cache.Set(ctx, key, string(b), s.ttl).Err(); err != nil {
			log.Printf("Failed to set value for key %s: %s\n", key, err)
		}
	}
	return stats, nil
}

// StatsForRoomTypes reads the stats of many room types in one query. Room types without
// published reviews map to zero stats.
func (s *ReviewService) StatsForRoomTypes(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]RatingStats, error) {
	out := make(map[uuid.UUID]RatingStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []ratingRow
	err := publishedReviews(s.db.WithContext(ctx)).
		Select(ratingColumns).
		Where("room_type_id IN ?", ids).
		Group("room_type_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, internal("aggregate review stats", err)
	}
	for _, id := range ids {
		out[id] = RatingStats{}
	}
	for _, r := range rows {
		out[r.RoomTypeID] = RatingStats{ReviewCount: r.ReviewCount, AverageRating: utils.Round1(r.AverageRating)}
	}
	return out, nil
}

// GetTopRoomType picks the room type with the most published reviews; ties go to the
// lowest room type id.
func (s *ReviewService) GetTopRoomType(ctx context.Context) (*TopRoomType, error) {
	db := s.db.WithContext(ctx)
	var rows []ratingRow
	err := publishedReviews(db).
		Select(ratingColumns).
		Group("room_type_id").
		Order("review_count desc, room_type_id asc").
		Limit(1).
		Scan(&rows).
		Error
	if err != nil {
		return nil, internal("aggregate top room type", err)
	}
	if len(rows) == 0 {
		return nil, errs.NotFound("no reviewed room types")
	}
	var rt models.RoomType
	if err := db.Scopes(scopes.WithID(rows[0].RoomTypeID)).First(&rt).Error; err != nil {
		return nil, notFoundOr(err, "room type not found")
	}
	return &TopRoomType{
		RoomType:      rt,
		ReviewCount:   rows[0].ReviewCount,
		AverageRating: utils.Round1(rows[0].AverageRating),
		Rate:          rt.Rates.Checkin12h,
	}, nil
}

func (s *ReviewService) AddReview(ctx context.Context, in AddReviewInput) (*models.Review, error) {
	comment := strings.TrimSpace(in.Comment)
	if in.Rate < 1 || in.Rate > 5 {
		return nil, errs.Validation("Rate must be between 1 and 5")
	}
	if comment == "" {
		return nil, errs.Validation("Comment is required")
	}
	if utf8.RuneCountInString(comment) > config.REVIEW_COMMENT_MAXLEN {
		return nil, errs.Validation(fmt.Sprintf("Comment must be %d characters or less", config.REVIEW_COMMENT_MAXLEN))
	}
	db := s.db.WithContext(ctx)
	var rt models.RoomType
	if err := db.Scopes(scopes.WithID(in.RoomTypeID)).First(&rt).Error; err != nil {
		return nil, notFoundOr(err, "room type not found")
	}
	var guest models.Guest
	if err := db.Scopes(scopes.WithID(in.GuestID)).First(&guest).Error; err != nil {
		return nil, notFoundOr(err, "guest not found")
	}
	review := models.Review{
		Rate:       in.Rate,
		RoomTypeID: rt.ID,
		GuestID:    guest.ID,
		Comment:    comment,
		Status:     types.REVIEW_PUBLISHED,
	}
	if err := db.Create(&review).Error; err != nil {
		return nil, internal("create review", err)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, StatsCacheKey(rt.ID)).Err(); err != nil {
			log.Printf("[redis] Error invalidating %s: %s\n", StatsCacheKey(rt.ID), err.Error())
		}
	}
	return &review, nil
}

// ListReviews returns the published reviews of a room type, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, roomTypeID uuid.UUID) ([]models.Review, error) {
	reviews := []models.Review{}
	err := s.db.WithContext(ctx).
		Scopes(scopes.WithPublishedStatus).
		Preload("Guest").
		Where("room_type_id = ?", roomTypeID).
		Order("created_at desc").
		Find(&reviews).
		Error
	if err != nil {
		return nil, internal("list reviews", err)
	}
	return reviews, nil
}
