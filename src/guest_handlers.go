package main

import (
	"hbs/src/middlewares"
	"hbs/src/services"
	"hbs/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func guestHandlers(g *gin.RouterGroup, api *API) *gin.RouterGroup {
	g.
		GET("/guests/me", func(ctx *gin.Context) {
			guest, err := api.Guests.GetGuestByUserID(ctx.Request.Context(), currentUserID(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "guest": guestJSON(guest)})
		}).
		GET("/guests", middlewares.StaffOnly, func(ctx *gin.Context) {
			var query struct {
				Email string `form:"email" binding:"required,email"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			guest, err := api.Guests.GetGuestByEmail(ctx.Request.Context(), query.Email)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "guest": guestJSON(guest)})
		}).
		POST("/guests", func(ctx *gin.Context) {
			var body types.CreateGuestRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			guest, err := api.Guests.CreateGuestForUser(ctx.Request.Context(), services.CreateGuestInput{
				UserID:       currentUserID(ctx),
				FirstName:    body.FirstName,
				LastName:     body.LastName,
				Email:        body.Email,
				Gender:       body.Gender,
				Address:      body.Address,
				MobileNumber: body.MobileNumber,
			})
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "guest": guestJSON(guest)})
		}).
		PUT("/guests/me/contact", middlewares.GuestOnly, func(ctx *gin.Context) {
			var body types.UpdateContactRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			guest, err := api.Guests.UpdateContact(ctx.Request.Context(), currentGuestID(ctx), body.Address, body.MobileNumber)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "guest": guestJSON(guest)})
		}).
		GET("/guests/me/vouchers", middlewares.GuestOnly, func(ctx *gin.Context) {
			vouchers, err := api.Loyalty.ListUsableVouchers(ctx.Request.Context(), currentGuestID(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "vouchers": vouchersJSON(vouchers)})
		}).
		GET("/guests/me/vouchers/:id", middlewares.GuestOnly, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			v, err := api.Loyalty.GetUsableVoucher(ctx.Request.Context(), currentGuestID(ctx), uuid.MustParse(params.ID))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "voucher": voucherJSON(v)})
		})

	return g
}
