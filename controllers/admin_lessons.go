package controllers

import (
	"net/http"
	"strconv"
	"strings"

	dbpkg "coursehub/db"
	"coursehub/models"
	"coursehub/tools"

	"github.com/gin-gonic/gin"
)

// LessonPatch é a edição inline da listagem: só posição e preview.
type LessonPatch struct {
	Position      *int  `json:"position"`
	IsFreePreview *bool `json:"is_free_preview"`
}

// GET /api/admin/lessons?course_id=&is_free_preview=&q=
func GetLessons(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	query := db.Table("lessons").
		Select("lessons.*").
		Joins("JOIN courses ON courses.id = lessons.course_id")

	if v := c.Query("course_id"); v != "" {
		courseID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			RespondError(c, "course_id inválido", http.StatusBadRequest)
			return
		}
		query = query.Where("lessons.course_id = ?", courseID)
	}
	if v := c.Query("is_free_preview"); v != "" {
		preview, err := strconv.ParseBool(v)
		if err != nil {
			RespondError(c, "is_free_preview inválido", http.StatusBadRequest)
			return
		}
		query = query.Where("lessons.is_free_preview = ?", preview)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(lessons.title) LIKE ? OR LOWER(courses.title) LIKE ?", like, like)
	}

	var lessons []models.Lesson
	if err := query.Order("lessons.course_id asc, lessons.position asc, lessons.id asc").Find(&lessons).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"lessons": lessons})
}

// GET /api/admin/lessons/:id
func GetLessonByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	var lesson models.Lesson
	if err := db.First(&lesson, id).Error; err != nil {
		RespondError(c, "aula não encontrada", http.StatusNotFound)
		return
	}
	RespondSuccess(c, gin.H{"lesson": lesson})
}

// POST /api/admin/lessons
func CreateLesson(c *gin.Context) {
	var lesson models.Lesson
	if err := c.Bind(&lesson); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	lesson.Title = strings.TrimSpace(lesson.Title)
	if lesson.Title == "" {
		RespondError(c, "title é obrigatório", http.StatusBadRequest)
		return
	}
	if lesson.CourseID <= 0 {
		RespondError(c, "course_id é obrigatório", http.StatusBadRequest)
		return
	}
	lesson.Slug = tools.Slugify(lesson.Slug, lesson.Title)

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	if err := db.First(&models.Course{}, lesson.CourseID).Error; err != nil {
		RespondError(c, "curso não encontrado", http.StatusNotFound)
		return
	}
	if err := db.Create(&lesson).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"lesson": lesson})
}

// PUT /api/admin/lessons/:id
// A aula não troca de curso.
func UpdateLesson(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var body models.Lesson
	if err := c.Bind(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	var lesson models.Lesson
	if err := db.First(&lesson, id).Error; err != nil {
		RespondError(c, "aula não encontrada", http.StatusNotFound)
		return
	}

	if t := strings.TrimSpace(body.Title); t != "" {
		lesson.Title = t
	}
	if body.Slug != "" {
		lesson.Slug = tools.Slugify(body.Slug, "")
	}
	lesson.Description = body.Description
	lesson.Video = body.Video
	lesson.Position = body.Position
	lesson.IsFreePreview = body.IsFreePreview

	if err := db.Save(&lesson).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"lesson": lesson})
}

// PATCH /api/admin/lessons/:id
func PatchLesson(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var patch LessonPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if patch.Position == nil && patch.IsFreePreview == nil {
		RespondError(c, "position ou is_free_preview é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	var lesson models.Lesson
	if err := db.First(&lesson, id).Error; err != nil {
		RespondError(c, "aula não encontrada", http.StatusNotFound)
		return
	}

	changes := map[string]any{}
	if patch.Position != nil {
		changes["position"] = *patch.Position
	}
	if patch.IsFreePreview != nil {
		changes["is_free_preview"] = *patch.IsFreePreview
	}
	if err := db.Model(&lesson).Updates(changes).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"lesson": lesson})
}

// DELETE /api/admin/lessons/:id
func DeleteLesson(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	if err := db.Delete(&models.Lesson{}, "id = ?", id).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}
