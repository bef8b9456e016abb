package controllers

import (
	"errors"
	"net/http"

	"coursehub/membership"

	"github.com/gin-gonic/gin"
)

func Me(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GET /api/me/membership (validated)
func MyMembership(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	services := ServicesInstance(c)
	if services == nil {
		RespondError(c, "serviços não configurados no contexto", http.StatusInternalServerError)
		return
	}

	um, err := services.Memberships.Current(user.ID)
	if errors.Is(err, membership.ErrNoUserMembership) {
		RespondError(c, "membership não encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	sub, err := services.Memberships.CurrentSubscription(user.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	payload := gin.H{"user_membership": um, "subscription": sub}
	if sub != nil {
		created, next := services.Memberships.Dates(requestCtx(c), sub)
		payload["created_at"] = created
		payload["next_billing_at"] = next
	}
	RespondSuccess(c, payload)
}
