package controllers

import (
	"net/http"
	"strings"

	dbpkg "coursehub/db"
	"coursehub/models"

	"github.com/gin-gonic/gin"
)

// GET /profile/
func Profile(c *gin.Context) {
	user, _ := GetUserLogged(c)
	db := dbpkg.DBInstance(c)
	services := ServicesInstance(c)
	if db == nil || services == nil {
		renderError(c, http.StatusInternalServerError, "db não configurado no contexto")
		return
	}

	var profile models.Profile
	if err := db.Where(models.Profile{UserID: user.ID}).FirstOrCreate(&profile).Error; err != nil {
		renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	data := gin.H{"title": "Profile", "profile": profile, "membership_name": "None"}
	if um, err := services.Memberships.Current(user.ID); err == nil {
		data["membership_name"] = um.TierName()
	}
	if sub, err := services.Memberships.CurrentSubscription(user.ID); err == nil && sub != nil {
		created, next := services.Memberships.Dates(requestCtx(c), sub)
		data["subscription"] = sub
		data["created"] = created
		data["next_billing"] = next
	}
	render(c, http.StatusOK, "profile.html", data)
}

// POST /profile/
func ProfilePost(c *gin.Context) {
	user, _ := GetUserLogged(c)
	db := dbpkg.DBInstance(c)
	if db == nil {
		renderError(c, http.StatusInternalServerError, "db não configurado no contexto")
		return
	}

	var profile models.Profile
	if err := db.Where(models.Profile{UserID: user.ID}).FirstOrCreate(&profile).Error; err != nil {
		renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	err := db.Model(&profile).Updates(map[string]any{
		"bio":        strings.TrimSpace(c.PostForm("bio")),
		"avatar_url": strings.TrimSpace(c.PostForm("avatar_url")),
	}).Error
	if err != nil {
		flash(c, FLASH_ERROR, "Could not update your profile.")
	} else {
		flash(c, FLASH_SUCCESS, "Your profile has been updated.")
	}
	c.Redirect(http.StatusFound, "/profile/")
}
