package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	dbpkg "coursehub/db"
	"coursehub/events"
	"coursehub/models"
	"coursehub/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// validationError carrega a mensagem mostrada ao usuário.
type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

type SignupRequest struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm"`
}

func CheckUserExists(db *gorm.DB, username, email string) (bool, error) {
	var count int
	err := db.Model(&models.User{}).Where("email = ? OR username = ?", email, username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// registerUser valida, cria a conta (o hook cria Profile e UserMembership) e
// preenche o customer id do provedor de cobrança.
func registerUser(c *gin.Context, req SignupRequest) (models.User, error) {
	db := dbpkg.DBInstance(c)
	services := ServicesInstance(c)
	if db == nil || services == nil {
		return models.User{}, errors.New("db não configurado no contexto")
	}

	user := models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
	}
	if missing := user.MissingFields(); missing != "" {
		return models.User{}, validationError{"Faltando campo " + missing}
	}
	if !tools.ValidateUsername(user.Username) {
		return models.User{}, validationError{"Username inválido"}
	}
	if !tools.ValidateEmail(user.Email) {
		return models.User{}, validationError{"E-mail inválido!"}
	}
	if tools.CheckPassword(req.Password) != "" {
		return models.User{}, validationError{"A senha precisa ter ao menos 8 caracteres"}
	}
	if req.PasswordConfirm != "" && req.PasswordConfirm != req.Password {
		return models.User{}, validationError{"As senhas não conferem"}
	}

	exists, err := CheckUserExists(db, user.Username, user.Email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, validationError{"Usuário já existe"}
	}

	hash, err := tools.HashPassword(req.Password, services.Config.Security.BcryptCost)
	if err != nil {
		return models.User{}, err
	}
	user.Password = hash
	user.Admin = false
	user.Status = models.USER_STATUS_AVAILABLE

	if err := db.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	if _, err := services.Memberships.EnsureUserMembership(requestCtx(c), user); err != nil {
		services.Logger.Error().Err(err).Int64("user_id", user.ID).Msg("signup: user membership")
	}
	if services.Events != nil {
		err := services.Events.Publish(requestCtx(c), events.UserRegistered, events.MembershipEvent{
			UserID:     user.ID,
			Username:   user.Username,
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			services.Logger.Warn().Err(err).Msg("signup: evento não publicado")
		}
	}
	return user, nil
}

// POST /api/users (public)
func CreateUser(c *gin.Context) {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := registerUser(c, req)
	var verr validationError
	if errors.As(err, &verr) {
		RespondError(c, verr.msg, http.StatusBadRequest)
		return
	}
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, user)
}
