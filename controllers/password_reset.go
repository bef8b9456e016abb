package controllers

import (
	"strings"
	"time"

	dbpkg "coursehub/db"
	"coursehub/mailer"
	"coursehub/models"
	"coursehub/tools"

	"github.com/gin-gonic/gin"
)

// POST /api/password/forgot (public)
// Body: { "email": "..." }
// Retorna sempre true (anti enumeração).
func ForgotPasswordSendCode(c *gin.Context) {
	type Request struct {
		Email string `json:"email" form:"email"`
	}

	var req Request
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		RespondSuccess(c, true)
		return
	}

	db := dbpkg.DBInstance(c)
	services := ServicesInstance(c)
	if db == nil || services == nil {
		RespondSuccess(c, true)
		return
	}

	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		RespondSuccess(c, true)
		return
	}

	// Mantém 1 código ativo por usuário
	_ = db.Where("user_id = ? AND used_at IS NULL", user.ID).Delete(&models.PasswordReset{}).Error

	tokenText := tools.RandomNumbers(6)
	ttl := services.Config.Security.ResetCodeTTLMinutes
	exp := time.Now().Add(time.Duration(ttl) * time.Minute)
	reset := models.PasswordReset{
		UserID:    user.ID,
		TokenHash: tools.EncryptTextSHA512(tokenText),
		Channel:   "email",
		ExpiresAt: &exp,
	}
	if err := db.Create(&reset).Error; err != nil {
		services.Logger.Error().Err(err).Int64("user_id", user.ID).Msg("forgot password: erro ao salvar código")
		RespondSuccess(c, true)
		return
	}

	// best-effort; anti-enumeração: nunca quebra o fluxo
	if err := services.Mailer.Send(requestCtx(c), mailer.PasswordResetMessage(user.Email, tokenText, ttl)); err != nil {
		services.Logger.Warn().Err(err).Int64("user_id", user.ID).Msg("forgot password: email não enviado")
	}

	RespondSuccess(c, true)
}

func findUsableReset(c *gin.Context, email, token string) (models.User, models.PasswordReset, bool) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		return models.User{}, models.PasswordReset{}, false
	}

	var user models.User
	if err := db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return models.User{}, models.PasswordReset{}, false
	}

	var reset models.PasswordReset
	err := db.
		Where("user_id = ? AND token_hash = ? AND used_at IS NULL", user.ID, tools.EncryptTextSHA512(token)).
		Order("id desc").
		First(&reset).Error
	if err != nil || !reset.IsUsable(time.Now()) {
		return models.User{}, models.PasswordReset{}, false
	}
	return user, reset, true
}

// POST /api/password/check-token (public)
// Body: { "email": "...", "token": "123456" }
// Retorna true/false (não consome o token).
func CheckResetToken(c *gin.Context) {
	type Request struct {
		Email string `json:"email" form:"email"`
		Token string `json:"token" form:"token"`
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		RespondSuccess(c, false)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Token = strings.TrimSpace(req.Token)
	if req.Email == "" || req.Token == "" {
		RespondSuccess(c, false)
		return
	}

	_, _, ok := findUsableReset(c, req.Email, req.Token)
	RespondSuccess(c, ok)
}

// POST /api/password/reset (public)
// Body: { "email": "...", "token": "123456", "new_password": "..." }
func ResetPassword(c *gin.Context) {
	type Request struct {
		Email       string `json:"email" form:"email"`
		Token       string `json:"token" form:"token"`
		NewPassword string `json:"new_password" form:"new_password"`
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		RespondSuccess(c, false)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Token = strings.TrimSpace(req.Token)
	if req.Email == "" || req.Token == "" || tools.CheckPassword(req.NewPassword) != "" {
		RespondSuccess(c, false)
		return
	}

	services := ServicesInstance(c)
	db := dbpkg.DBInstance(c)
	if services == nil || db == nil {
		RespondSuccess(c, false)
		return
	}

	user, reset, ok := findUsableReset(c, req.Email, req.Token)
	if !ok {
		RespondSuccess(c, false)
		return
	}

	hash, err := tools.HashPassword(req.NewPassword, services.Config.Security.BcryptCost)
	if err != nil {
		RespondSuccess(c, false)
		return
	}

	tx := db.Begin()

	if err := tx.Model(&user).Update("password", hash).Error; err != nil {
		tx.Rollback()
		RespondSuccess(c, false)
		return
	}

	now := time.Now()
	if err := tx.Model(&reset).Update("used_at", &now).Error; err != nil {
		tx.Rollback()
		RespondSuccess(c, false)
		return
	}

	// Revoga refresh tokens do usuário (força novo login)
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error; err != nil {
		tx.Rollback()
		RespondSuccess(c, false)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondSuccess(c, false)
		return
	}

	RespondSuccess(c, true)
}
