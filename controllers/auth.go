package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	dbpkg "coursehub/db"
	"coursehub/models"
	"coursehub/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

var (
	errBadCredentials = errors.New("usuário ou senha inválidos")
	errUserBlocked    = errors.New("usuário bloqueado")
)

type LoginRequest struct {
	Login    string `json:"login" form:"login"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginResponse struct {
	Token           string      `json:"token"`
	AccessExpiresAt int64       `json:"access_expires_at"`
	RefreshToken    string      `json:"refresh_token"`
	User            models.User `json:"user"`
}

// authenticate aceita username ou email. Usado pelo login HTML e pela API.
func authenticate(db *gorm.DB, login, password string) (models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return models.User{}, errBadCredentials
	}

	var user models.User
	err := db.Where("email = ? OR username = ?", strings.ToLower(login), login).First(&user).Error
	if err != nil {
		return models.User{}, errBadCredentials
	}

	ok, err := tools.PasswordMatches(user.Password, password)
	if err != nil || !ok {
		return models.User{}, errBadCredentials
	}
	if user.IsBlocked() {
		return models.User{}, errUserBlocked
	}
	return user, nil
}

// POST /api/login (public, rate limited)
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Login == "" {
		req.Login = req.Email
	}
	if req.Login == "" || req.Password == "" {
		RespondError(c, "login e password são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	services := ServicesInstance(c)
	if db == nil || services == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	user, err := authenticate(db, req.Login, req.Password)
	if errors.Is(err, errUserBlocked) {
		RespondError(c, err.Error(), http.StatusForbidden)
		return
	}
	if err != nil {
		RespondError(c, err.Error(), http.StatusUnauthorized)
		return
	}

	now := time.Now()
	sec := services.Config.Security
	token, exp, err := signAccessToken(sec.JwtSecret, user, now, time.Duration(sec.AccessTTLMinutes)*time.Minute)
	if err != nil {
		RespondError(c, "erro ao assinar token", http.StatusInternalServerError)
		return
	}
	refresh, err := issueRefreshToken(db, user.ID, now, sec.RefreshCodeLen, sec.RefreshCodeMaxValid)
	if err != nil {
		RespondError(c, "erro ao gerar refresh token", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, LoginResponse{
		Token:           token,
		AccessExpiresAt: exp.Unix(),
		RefreshToken:    refresh,
		User:            user,
	})
}
