package main

import (
	"context"
	"fmt"
	"hbs/src/errs"
	"hbs/src/lib"
	"hbs/src/middlewares"
	"hbs/src/models"
	"hbs/src/services"
	"hbs/src/types"
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type transitionFunc func(ctx context.Context, id uuid.UUID, actor services.Actor) (*models.Transaction, error)

func transitionHandler(api *API, fn transitionFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			respondBadRequest(ctx, err)
			return
		}
		t, err := fn(ctx.Request.Context(), uuid.MustParse(params.ID), currentActor(ctx))
		if err != nil {
			respondError(ctx, err)
			return
		}
		go api.notifyGuest(t)
		ctx.JSON(http.StatusOK, gin.H{"success": true, "transaction": transactionJSON(t)})
	}
}

// viewableTransaction loads a transaction the caller may see: staff see all, guests their own.
func viewableTransaction(ctx *gin.Context, api *API) (*models.Transaction, bool) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		respondBadRequest(ctx, err)
		return nil, false
	}
	t, err := api.Transactions.Get(ctx.Request.Context(), uuid.MustParse(params.ID))
	if err != nil {
		respondError(ctx, err)
		return nil, false
	}
	actor := currentActor(ctx)
	if !actor.IsStaff() && !t.IsOwnedBy(actor.ID) {
		respondError(ctx, errs.Forbidden("Unauthorized"))
		return nil, false
	}
	return t, true
}

func transactionHandlers(g *gin.RouterGroup, api *API) *gin.RouterGroup {
	g.
		POST("/transactions", func(ctx *gin.Context) {
			var body types.CreateTransactionRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			actor := currentActor(ctx)
			guestID := currentGuestID(ctx)
			if actor.IsStaff() && body.GuestID != "" {
				guestID = uuid.MustParse(body.GuestID)
			}
			if guestID == uuid.Nil {
				respondError(ctx, errs.Forbidden("guest profile required"))
				return
			}
			in := services.CreateTransactionInput{
				GuestID:         guestID,
				RoomID:          uuid.MustParse(body.RoomID),
				TotalAmount:     *body.TotalAmount,
				ReferenceNo:     body.ReferenceNo,
				CheckIn:         body.CheckIn.Time,
				CheckOut:        body.CheckOut.Time,
				TransactionType: types.TransactionType(body.TransactionType),
				BasePrice:       *body.BasePrice,
				Discount:        body.Discount,
				PaymentMethod:   body.PaymentMethod,
				Currency:        body.Currency,
			}
			if body.VoucherID != nil && *body.VoucherID != "" {
				vid, err := uuid.Parse(*body.VoucherID)
				if err != nil {
					respondError(ctx, errs.Validation("invalid voucher_id"))
					return
				}
				in.VoucherID = &vid
			}
			t, err := api.Transactions.Create(ctx.Request.Context(), in)
			if err != nil {
				respondError(ctx, err)
				return
			}
			go api.notifyGuest(t)
			ctx.JSON(http.StatusCreated, gin.H{
				"success":     true,
				"message":     fmt.Sprintf("%s created", t.TransactionType),
				"transaction": transactionJSON(t),
			})
		}).
		GET("/transactions", func(ctx *gin.Context) {
			var query types.GuestTransactionsQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				respondBadRequest(ctx, err)
				return
			}
			guestID := uuid.MustParse(query.GuestID)
			actor := currentActor(ctx)
			if !actor.IsStaff() && actor.ID != guestID {
				respondError(ctx, errs.Forbidden("Unauthorized"))
				return
			}
			list, err := api.Transactions.ListForGuest(ctx.Request.Context(), guestID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			out := make([]gin.H, 0, len(list))
			for i := range list {
				out = append(out, transactionJSON(&list[i]))
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "transactions": out})
		}).
		GET("/transactions/:id", func(ctx *gin.Context) {
			t, ok := viewableTransaction(ctx, api)
			if !ok {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "transaction": transactionJSON(t)})
		}).
		GET("/transactions/:id/qr", func(ctx *gin.Context) {
			t, ok := viewableTransaction(ctx, api)
			if !ok {
				return
			}
			dir, err := os.MkdirTemp("", "qr")
			if err != nil {
				respondError(ctx, errs.Internal(err))
				return
			}
			defer os.RemoveAll(dir)
			file := path.Join(dir, fmt.Sprintf("%s.jpeg", t.ID))
			if err := lib.SaveQRCode(t.ID.String(), file); err != nil {
				log.Printf("[QR] Error generating code for transaction %s: %s\n", t.ID, err.Error())
				respondError(ctx, errs.Internal(err))
				return
			}
			ctx.File(file)
		}).
		PUT("/transactions/:id/cancel", transitionHandler(api, api.Transactions.Cancel)).
		PUT("/transactions/:id/checkout", transitionHandler(api, api.Transactions.Checkout)).
		PUT("/transactions/:id/accept", middlewares.StaffOnly, transitionHandler(api, api.Transactions.Accept)).
		PUT("/transactions/:id/confirm", middlewares.StaffOnly, transitionHandler(api, api.Transactions.Confirm))

	return g
}
