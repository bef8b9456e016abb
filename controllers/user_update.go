package controllers

import (
	"net/http"
	"strings"

	dbpkg "coursehub/db"
	"coursehub/models"

	"github.com/gin-gonic/gin"
)

// allowed keys for the profile update; everything else is ignored.
var profileFields = map[string]struct{}{
	"bio":        {},
	"avatar_url": {},
}

// UpdateCurrentProfile updates the logged user's profile ("me").
// Route: PUT /api/me/profile
func UpdateCurrentProfile(c *gin.Context) {
	logged, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	// Bind to a generic map so we can ignore forbidden keys safely.
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	updates := map[string]any{}
	for k, v := range payload {
		key := strings.ToLower(k)
		if _, allowed := profileFields[key]; !allowed {
			continue
		}
		s, isString := v.(string)
		if !isString {
			RespondError(c, key+" precisa ser texto", http.StatusBadRequest)
			return
		}
		updates[key] = strings.TrimSpace(s)
	}

	var profile models.Profile
	if err := db.Where(models.Profile{UserID: logged.ID}).FirstOrCreate(&profile).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(updates) > 0 {
		if err := db.Model(&profile).Updates(updates).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := db.First(&profile, profile.ID).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"profile": profile})
}
