package controllers

import (
	"net/http"
	"strings"

	dbpkg "coursehub/db"
	"coursehub/models"
	"coursehub/tools"

	"github.com/gin-gonic/gin"
)

// GET /api/memberships
func GetMemberships(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var memberships []models.Membership
	if err := db.Order("price_cents asc, id asc").Find(&memberships).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"memberships": memberships})
}

// GET /api/memberships/:id
func GetMembershipByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var membership models.Membership
	if err := db.First(&membership, id).Error; err != nil {
		RespondError(c, "membership não encontrada", http.StatusNotFound)
		return
	}

	RespondSuccess(c, gin.H{"membership": membership})
}

// POST /api/admin/memberships
func CreateMembership(c *gin.Context) {
	var membership models.Membership
	if err := c.Bind(&membership); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.IsMembershipType(membership.Type) {
		RespondError(c, "membership_type inválido", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(membership.Name) == "" {
		RespondError(c, "name é obrigatório", http.StatusBadRequest)
		return
	}
	if membership.PriceCents < 0 {
		RespondError(c, "price_cents inválido", http.StatusBadRequest)
		return
	}
	membership.Slug = tools.Slugify(membership.Slug, membership.Name)
	if membership.Currency == "" {
		membership.Currency = "USD"
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := db.Create(&membership).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"membership": membership})
}

// MembershipUpdate usa ponteiros para distinguir "não enviado" de zero.
type MembershipUpdate struct {
	Slug          string  `json:"slug" form:"slug"`
	Name          string  `json:"name" form:"name"`
	Description   *string `json:"description" form:"description"`
	PriceCents    *int64  `json:"price_cents" form:"price_cents"`
	Currency      string  `json:"currency" form:"currency"`
	BillingPlanID *string `json:"billing_plan_id" form:"billing_plan_id"`
}

// PUT /api/admin/memberships/:id
// O tipo não muda depois de criado.
func UpdateMembership(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var body MembershipUpdate
	if err := c.Bind(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var membership models.Membership
	if err := db.First(&membership, id).Error; err != nil {
		RespondError(c, "membership não encontrada", http.StatusNotFound)
		return
	}

	if n := strings.TrimSpace(body.Name); n != "" {
		membership.Name = n
	}
	if body.Slug != "" {
		membership.Slug = tools.Slugify(body.Slug, "")
	}
	if body.Description != nil {
		membership.Description = *body.Description
	}
	if body.PriceCents != nil {
		if *body.PriceCents < 0 {
			RespondError(c, "price_cents inválido", http.StatusBadRequest)
			return
		}
		membership.PriceCents = *body.PriceCents
	}
	if body.Currency != "" {
		membership.Currency = body.Currency
	}
	if body.BillingPlanID != nil {
		membership.BillingPlanID = *body.BillingPlanID
	}

	if err := db.Save(&membership).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"membership": membership})
}

// DELETE /api/admin/memberships/:id
// Usuários do tier ficam sem tier; o free não pode sair porque o cancelamento depende dele.
func DeleteMembership(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var membership models.Membership
	if err := db.First(&membership, id).Error; err != nil {
		RespondError(c, "membership não encontrada", http.StatusNotFound)
		return
	}
	if membership.IsFree() {
		RespondError(c, "o tier free não pode ser removido", http.StatusBadRequest)
		return
	}

	tx := db.Begin()
	if err := tx.Model(&models.UserMembership{}).Where("membership_id = ?", id).Update("membership_id", nil).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := tx.Delete(&models.CourseMembership{}, "membership_id = ?", id).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := tx.Delete(&models.Membership{}, "id = ?", id).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}
