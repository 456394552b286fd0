package main

import (
	"hbs/src/errs"
	"hbs/src/models"
	"hbs/src/services"
	"hbs/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respondError(ctx *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[%s %s] %s\n", ctx.Request.Method, ctx.FullPath(), err.Error())
	}
	ctx.JSON(status, gin.H{"success": false, "message": errs.PublicMessage(err)})
}

func respondBadRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
}

// currentActor identifies the caller: staff act as their user, guests as their guest profile.
func currentActor(ctx *gin.Context) services.Actor {
	role := types.Role(ctx.GetString("role"))
	key := "guest_id"
	if role.IsStaff() {
		key = "uid"
	}
	id, _ := uuid.Parse(ctx.GetString(key))
	return services.Actor{ID: id, Role: role}
}

func currentGuestID(ctx *gin.Context) uuid.UUID {
	id, _ := uuid.Parse(ctx.GetString("guest_id"))
	return id
}

func currentUserID(ctx *gin.Context) uuid.UUID {
	id, _ := uuid.Parse(ctx.GetString("uid"))
	return id
}

func roomTypeJSON(rt *models.RoomType) gin.H {
	return gin.H{
		"id":          rt.ID,
		"type_name":   rt.TypeName,
		"description": rt.Description,
		"guest_num":   rt.GuestNum,
		"rates":       rt.Rates,
		"images":      rt.Images,
		"status":      rt.Status,
	}
}

func roomTypeViewJSON(v *services.RoomTypeView, stats *services.RatingStats) gin.H {
	out := roomTypeJSON(&v.RoomType)
	out["room_features"] = v.FeatureNames
	out["amenities"] = v.Amenities
	if stats != nil {
		out["rating"] = stats.AverageRating
		out["reviewCount"] = stats.ReviewCount
	}
	return out
}

func roomInstanceJSON(ri *models.RoomInstance) gin.H {
	return gin.H{
		"id":        ri.ID,
		"room_no":   ri.RoomNo,
		"room_type": ri.RoomTypeID,
		"status":    ri.Status,
	}
}

func paymentsJSON(payments types.Payments) []gin.H {
	out := make([]gin.H, 0, len(payments))
	for _, p := range payments {
		out = append(out, gin.H{
			"method":       p.Method,
			"details":      p.Details,
			"amount":       p.Amount,
			"currency":     p.Currency,
			"status":       p.Status,
			"processed_at": types.Millis(p.ProcessedAt),
		})
	}
	return out
}

func transactionJSON(t *models.Transaction) gin.H {
	audit := make([]gin.H, 0, len(t.AuditLog))
	for _, e := range t.AuditLog {
		audit = append(audit, gin.H{
			"seq":           e.Seq,
			"action":        e.Action,
			"by":            e.ActorID,
			"timestamp":     types.Millis(e.Timestamp),
			"points_earned": e.PointsEarned,
		})
	}
	return gin.H{
		"id":               t.ID,
		"transaction_type": t.TransactionType,
		"guest_id":         t.GuestID,
		"employee_id":      t.EmployeeID,
		"room_id":          t.RoomID,
		"voucher_id":       t.VoucherID,
		"payment":          paymentsJSON(t.Payments),
		"stay_details": gin.H{
			"expected_checkin":  types.Millis(t.Stay.ExpectedCheckin),
			"expected_checkout": types.Millis(t.Stay.ExpectedCheckout),
			"actual_checkin":    types.MillisPtr(t.Stay.ActualCheckin),
			"actual_checkout":   types.MillisPtr(t.Stay.ActualCheckout),
			"guest_num":         t.Stay.GuestNum,
			"stay_hours":        t.Stay.StayHours,
			"time_allowance":    t.Stay.TimeAllowance,
		},
		"current_status": t.CurrentStatus,
		"meta":           t.Meta,
		"audit_log":      audit,
		"created_at":     types.Millis(t.CreatedAt),
	}
}

func voucherJSON(v *models.Voucher) gin.H {
	return gin.H{
		"id":                  v.ID,
		"name":                v.Name,
		"description":         v.Description,
		"type":                v.Type,
		"value":               v.Value,
		"value_type":          v.ValueType,
		"membership_required": v.MembershipRequired,
		"valid_from":          types.Millis(v.ValidFrom),
		"valid_until":         types.Millis(v.ValidUntil),
		"is_active":           v.IsActive,
		"price":               v.Price,
	}
}

func vouchersJSON(list []models.Voucher) []gin.H {
	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, voucherJSON(&list[i]))
	}
	return out
}

func guestJSON(g *models.Guest) gin.H {
	out := gin.H{
		"id":            g.ID,
		"user_id":       g.UserID,
		"firstName":     g.FirstName,
		"lastName":      g.LastName,
		"email":         g.Email,
		"gender":        g.Gender,
		"address":       g.Address,
		"mobileNumber":  g.MobileNumber,
		"membership_id": g.MembershipID,
		"points":        g.Points,
		"checkin_count": g.CheckinCount,
	}
	if g.Membership != nil {
		out["membership"] = gin.H{
			"id":               g.Membership.ID,
			"membership_name":  g.Membership.MembershipName,
			"membership_level": g.Membership.MembershipLevel,
		}
	}
	return out
}

func reviewJSON(r *models.Review) gin.H {
	out := gin.H{
		"id":         r.ID,
		"rate":       r.Rate,
		"room_type":  r.RoomTypeID,
		"guest_id":   r.GuestID,
		"comment":    r.Comment,
		"status":     r.Status,
		"created_at": types.Millis(r.CreatedAt),
	}
	if r.Guest != nil {
		out["guest"] = gin.H{"firstName": r.Guest.FirstName, "lastName": r.Guest.LastName}
	}
	return out
}
