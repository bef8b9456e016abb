package controllers

import (
	"net/http"
	"strings"

	dbpkg "coursehub/db"
	"coursehub/models"
	"coursehub/tools"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/categories
func GetCategories(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	var categories []models.Category
	if err := db.Order("title asc").Find(&categories).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"categories": categories})
}

// POST /api/admin/categories
func CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.Bind(&category); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	category.Title = strings.TrimSpace(category.Title)
	if category.Title == "" {
		RespondError(c, "title é obrigatório", http.StatusBadRequest)
		return
	}
	category.Slug = tools.Slugify(category.Slug, category.Title)

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	if err := db.Create(&category).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"category": category})
}

// PUT /api/admin/categories/:id
func UpdateCategory(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var body models.Category
	if err := c.Bind(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		RespondError(c, "categoria não encontrada", http.StatusNotFound)
		return
	}

	if t := strings.TrimSpace(body.Title); t != "" {
		category.Title = t
	}
	if body.Slug != "" {
		category.Slug = tools.Slugify(body.Slug, "")
	}
	category.Description = body.Description

	if err := db.Save(&category).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"category": category})
}

// DELETE /api/admin/categories/:id
// Os cursos da categoria ficam sem categoria.
func DeleteCategory(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	tx := db.Begin()
	if err := tx.Model(&models.Course{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := tx.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
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
