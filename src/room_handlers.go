package main

import (
	"hbs/src/services"
	"hbs/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func roomHandlers(g *gin.RouterGroup, api *API) *gin.RouterGroup {
	g.
		GET("/rooms", func(ctx *gin.Context) {
			views, err := api.Catalog.ListActiveRoomTypes(ctx.Request.Context())
			if err != nil {
				respondError(ctx, err)
				return
			}
			ids := make([]uuid.UUID, 0, len(views))
			for _, v := range views {
				ids = append(ids, v.RoomType.ID)
			}
			stats, err := api.Reviews.StatsForRoomTypes(ctx.Request.Context(), ids)
			if err != nil {
				log.Printf("[Rooms] Error loading review stats: %s\n", err.Error())
				stats = map[uuid.UUID]services.RatingStats{}
			}
			rooms := make([]gin.H, 0, len(views))
			for i := range views {
				s := stats[views[i].RoomType.ID]
				rooms = append(rooms, roomTypeViewJSON(&views[i], &s))
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "rooms": rooms})
		}).
		GET("/rooms/available", func(ctx *gin.Context) {
			var query types.AvailabilityQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			checkIn, checkOut, err := services.ParseStayWindow(query.CheckIn, query.CheckOut)
			if err != nil {
				respondError(ctx, err)
				return
			}
			room, err := api.Availability.FindAvailableInstance(ctx.Request.Context(), uuid.MustParse(query.RoomTypeID), checkIn, checkOut)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "room": roomInstanceJSON(room)})
		}).
		GET("/rooms/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			view, err := api.Catalog.GetActiveRoomTypeByID(ctx.Request.Context(), uuid.MustParse(params.ID))
			if err != nil {
				respondError(ctx, err)
				return
			}
			stats, err := api.Reviews.GetRatingStats(ctx.Request.Context(), view.RoomType.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "room": roomTypeViewJSON(view, &stats)})
		}).
		GET("/rooms/:id/type", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			rt, err := api.Catalog.GetRoomTypeForInstance(ctx.Request.Context(), uuid.MustParse(params.ID))
			if err != nil {
				respondError(ctx, err)
				return
			}
			view := services.NewRoomTypeView(*rt)
			ctx.JSON(http.StatusOK, gin.H{"success": true, "roomType": roomTypeViewJSON(&view, nil)})
		}).
		GET("/room_instances/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			room, err := api.Catalog.GetRoomInstance(ctx.Request.Context(), uuid.MustParse(params.ID))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "room": roomInstanceJSON(room)})
		})

	return g
}
