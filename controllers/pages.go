package controllers

import (
	"net/http"

	dbpkg "coursehub/db"
	"coursehub/models"

	"github.com/gin-gonic/gin"
)

// GET /
func Home(c *gin.Context) {
	var categories []models.Category
	if db := dbpkg.DBInstance(c); db != nil {
		if err := db.Order("title asc").Find(&categories).Error; err != nil {
			if s := ServicesInstance(c); s != nil {
				s.Logger.Error().Err(err).Msg("home: categorias")
			}
		}
	}
	render(c, http.StatusOK, "index.html", gin.H{"categories": categories})
}

// GET /about/
func About(c *gin.Context) {
	render(c, http.StatusOK, "about.html", gin.H{"title": "About"})
}

// GET /contact/
func Contact(c *gin.Context) {
	email := ""
	if s := ServicesInstance(c); s != nil {
		email = s.Config.Mail.From
	}
	render(c, http.StatusOK, "contact.html", gin.H{"title": "Contact", "support_email": email})
}
