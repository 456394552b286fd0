package main

import (
	"hbs/src/middlewares"
	"hbs/src/services"
	"hbs/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func reviewHandlers(g *gin.RouterGroup, api *API) *gin.RouterGroup {
	g.
		POST("/reviews", middlewares.GuestOnly, func(ctx *gin.Context) {
			var body types.CreateReviewRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			review, err := api.Reviews.AddReview(ctx.Request.Context(), services.AddReviewInput{
				GuestID:    currentGuestID(ctx),
				RoomTypeID: uuid.MustParse(body.RoomType),
				Rate:       body.Rate,
				Comment:    body.Comment,
			})
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "message": "Review added", "review": reviewJSON(review)})
		}).
		GET("/reviews/room/:room_type", func(ctx *gin.Context) {
			var params types.RoomTypeParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			reviews, err := api.Reviews.ListReviews(ctx.Request.Context(), uuid.MustParse(params.RoomType))
			if err != nil {
				respondError(ctx, err)
				return
			}
			out := make([]gin.H, 0, len(reviews))
			for i := range reviews {
				out = append(out, reviewJSON(&reviews[i]))
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "reviews": out})
		}).
		GET("/reviews/stats/:room_type", func(ctx *gin.Context) {
			var params types.RoomTypeParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			stats, err := api.Reviews.GetRatingStats(ctx.Request.Context(), uuid.MustParse(params.RoomType))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success":       true,
				"reviewCount":   stats.ReviewCount,
				"averageRating": stats.AverageRating,
			})
		}).
		GET("/reviews/top-room", func(ctx *gin.Context) {
			top, err := api.Reviews.GetTopRoomType(ctx.Request.Context())
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"success":       true,
				"room":          roomTypeJSON(&top.RoomType),
				"reviewCount":   top.ReviewCount,
				"averageRating": top.AverageRating,
				"rate":          top.Rate,
			})
		})

	return g
}
