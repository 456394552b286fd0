package main

import (
	"hbs/src/middlewares"
	"hbs/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func voucherHandlers(g *gin.RouterGroup, api *API) *gin.RouterGroup {
	g.
		GET("/vouchers/type/:type", func(ctx *gin.Context) {
			var params types.VoucherTypeParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			vouchers, err := api.Loyalty.ListVouchersByType(ctx.Request.Context(), params.Type)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "vouchers": vouchersJSON(vouchers)})
		}).
		GET("/vouchers/buyable/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			v, err := api.Loyalty.GetBuyableVoucher(ctx.Request.Context(), uuid.MustParse(params.ID))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "voucher": voucherJSON(v)})
		}).
		POST("/vouchers/buy", middlewares.GuestOnly, func(ctx *gin.Context) {
			var body types.BuyVoucherRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			points, err := api.Loyalty.PurchaseVoucher(ctx.Request.Context(), currentGuestID(ctx), uuid.MustParse(body.VoucherID))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Voucher purchased", "points": points})
		})

	return g
}
