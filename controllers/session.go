package controllers

import (
	"net/http"
	"net/url"

	dbpkg "coursehub/db"
	"coursehub/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserKey      = "uid"
	sessionSelectionKey = "selected_membership_type"
)

const (
	FLASH_INFO    = "info"
	FLASH_SUCCESS = "success"
	FLASH_WARNING = "warning"
	FLASH_ERROR   = "error"
)

var flashLevels = []string{FLASH_ERROR, FLASH_WARNING, FLASH_INFO, FLASH_SUCCESS}

type FlashMessage struct {
	Level   string
	Message string
}

func flash(c *gin.Context, level, msg string) {
	s := sessions.Default(c)
	s.AddFlash(msg, level)
	_ = s.Save()
}

func popFlashes(c *gin.Context) []FlashMessage {
	s := sessions.Default(c)
	var out []FlashMessage
	for _, level := range flashLevels {
		for _, f := range s.Flashes(level) {
			if msg, ok := f.(string); ok {
				out = append(out, FlashMessage{Level: level, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		_ = s.Save()
	}
	return out
}

func loginSession(c *gin.Context, user models.User) error {
	s := sessions.Default(c)
	s.Clear()
	s.Set(sessionUserKey, user.ID)
	return s.Save()
}

func logoutSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

func selectedMembershipType(c *gin.Context) string {
	v, _ := sessions.Default(c).Get(sessionSelectionKey).(string)
	return v
}

func setSelectedMembershipType(c *gin.Context, membershipType string) {
	s := sessions.Default(c)
	if membershipType == "" {
		s.Delete(sessionSelectionKey)
	} else {
		s.Set(sessionSelectionKey, membershipType)
	}
	_ = s.Save()
}

// LoadSessionUser coloca no contexto o usuário da sessão, se houver.
// Usuário bloqueado ou apagado derruba a sessão.
func LoadSessionUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		id, ok := s.Get(sessionUserKey).(int64)
		if !ok || id <= 0 {
			c.Next()
			return
		}

		db := dbpkg.DBInstance(c)
		if db == nil {
			c.Next()
			return
		}
		var user models.User
		if err := db.First(&user, id).Error; err != nil || user.IsBlocked() {
			s.Delete(sessionUserKey)
			_ = s.Save()
			c.Next()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// LoginRequired manda para /accounts/login/?next=<path> quem não está logado.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserLogged(c); ok {
			c.Next()
			return
		}
		next := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			next += "?" + c.Request.URL.RawQuery
		}
		c.Redirect(http.StatusFound, "/accounts/login/?next="+url.QueryEscape(next))
		c.Abort()
	}
}
