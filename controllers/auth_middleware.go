package controllers

import (
	"errors"
	"net/http"
	"strings"

	dbpkg "coursehub/db"
	"coursehub/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ctxUserKey = "auth_user"

// AuthRequired validates the Bearer token and loads the user from DB into context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			RespondError(c, "token ausente", http.StatusUnauthorized)
			c.Abort()
			return
		}
		services := ServicesInstance(c)
		if services == nil {
			RespondError(c, "serviços não configurados no contexto", http.StatusInternalServerError)
			c.Abort()
			return
		}

		token := strings.TrimSpace(h[len("Bearer "):])
		userID, err := parseAccessToken(services.Config.Security.JwtSecret, token)
		if errors.Is(err, jwt.ErrTokenExpired) {
			RespondError(c, "token expirado", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if err != nil {
			RespondError(c, "token inválido", http.StatusUnauthorized)
			c.Abort()
			return
		}

		db := dbpkg.DBInstance(c)
		if db == nil {
			RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
			c.Abort()
			return
		}
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			RespondError(c, "user not found", http.StatusUnauthorized)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// GetUserLogged returns the user loaded by AuthRequired or LoadSessionUser.
func GetUserLogged(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
