package middlewares

import (
	"errors"
	"hbs/src/db"
	"hbs/src/models"
	"hbs/src/types"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func jwtKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// AuthMiddleware verifies the bearer token issued by the identity provider. The subject is
// the user id. It sets uid, email and role, and guest_id when the user has a guest profile.
func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	reqToken, found := strings.CutPrefix(bearerToken, "Bearer ")
	if !found || strings.TrimSpace(reqToken) == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(strings.TrimSpace(reqToken), claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtKey(), nil
	})
	if err != nil || !tkn.Valid {
		if err != nil {
			log.Printf("token error: %s\n", err.Error())
		}
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	db := db.GetDb().WithContext(ctx.Request.Context())
	var user models.User
	if err := db.Where("id = ?", uid).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Auth] Error retrieving user: %s\n", err.Error())
		}
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	ctx.Set("uid", user.ID.String())
	ctx.Set("email", user.Email)
	ctx.Set("role", string(user.Role))

	var guest models.Guest
	err = db.Select("id").Where("user_id = ?", user.ID).First(&guest).Error
	if err == nil {
		ctx.Set("guest_id", guest.ID.String())
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[Auth] Error retrieving guest profile: %s\n", err.Error())
	}
	ctx.Next()
}
