package controllers

import (
	"net/http"
	"strings"

	dbpkg "coursehub/db"
	"coursehub/models"
	"coursehub/tools"

	"github.com/gin-gonic/gin"
)

type CourseMembershipPayload struct {
	CourseID     int64 `json:"course_id" form:"course_id"`
	MembershipID int64 `json:"membership_id" form:"membership_id"`
}

// GET /api/admin/courses
func GetCourses(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	var courses []models.Course
	if err := db.Order("id asc").Find(&courses).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"courses": courses})
}

// GET /api/admin/courses/:id
func GetCourseByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	var course models.Course
	if err := db.First(&course, id).Error; err != nil {
		RespondError(c, "curso não encontrado", http.StatusNotFound)
		return
	}

	var err error
	if course.Lessons, err = loadLessons(db, course.ID); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if course.AllowedMemberships, err = loadAllowedMemberships(db, course.ID); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"course": course})
}

// POST /api/admin/courses
func CreateCourse(c *gin.Context) {
	var course models.Course
	if err := c.Bind(&course); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	course.Title = strings.TrimSpace(course.Title)
	if course.Title == "" {
		RespondError(c, "title é obrigatório", http.StatusBadRequest)
		return
	}
	course.Slug = tools.Slugify(course.Slug, course.Title)

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	if course.CategoryID != nil {
		if err := db.First(&models.Category{}, *course.CategoryID).Error; err != nil {
			RespondError(c, "categoria não encontrada", http.StatusNotFound)
			return
		}
	}
	if err := db.Create(&course).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"course": course})
}

// PUT /api/admin/courses/:id
func UpdateCourse(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var body models.Course
	if err := c.Bind(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var course models.Course
	if err := db.First(&course, id).Error; err != nil {
		RespondError(c, "curso não encontrado", http.StatusNotFound)
		return
	}

	if t := strings.TrimSpace(body.Title); t != "" {
		course.Title = t
	}
	if body.Slug != "" {
		course.Slug = tools.Slugify(body.Slug, "")
	}
	if body.CategoryID != nil {
		if err := db.First(&models.Category{}, *body.CategoryID).Error; err != nil {
			RespondError(c, "categoria não encontrada", http.StatusNotFound)
			return
		}
		course.CategoryID = body.CategoryID
	}
	course.Description = body.Description

	if err := db.Save(&course).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"course": course})
}

// DELETE /api/admin/courses/:id
// Aulas e vínculos com tiers vão junto.
func DeleteCourse(c *gin.Context) {
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
	for _, del := range []struct {
		model any
		where string
	}{
		{&models.Lesson{}, "course_id = ?"},
		{&models.CourseMembership{}, "course_id = ?"},
		{&models.Course{}, "id = ?"},
	} {
		if err := tx.Delete(del.model, del.where, id).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}

// POST /api/admin/course-memberships
func AddMembershipToCourse(c *gin.Context) {
	var payload CourseMembershipPayload
	if err := c.Bind(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if payload.CourseID <= 0 || payload.MembershipID <= 0 {
		RespondError(c, "course_id e membership_id são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := db.First(&models.Course{}, payload.CourseID).Error; err != nil {
		RespondError(c, "curso não encontrado", http.StatusNotFound)
		return
	}
	if err := db.First(&models.Membership{}, payload.MembershipID).Error; err != nil {
		RespondError(c, "membership não encontrada", http.StatusNotFound)
		return
	}

	var existing models.CourseMembership
	if err := db.
		Where("course_id = ? AND membership_id = ?", payload.CourseID, payload.MembershipID).
		First(&existing).Error; err == nil {
		RespondSuccess(c, gin.H{"status": "already_linked"})
		return
	}

	link := models.CourseMembership{
		CourseID:     payload.CourseID,
		MembershipID: payload.MembershipID,
	}
	if err := db.Create(&link).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"status": "linked", "link": link})
}

// DELETE /api/admin/course-memberships
func RemoveMembershipFromCourse(c *gin.Context) {
	var payload CourseMembershipPayload
	if err := c.Bind(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if payload.CourseID <= 0 || payload.MembershipID <= 0 {
		RespondError(c, "course_id e membership_id são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := db.
		Delete(&models.CourseMembership{}, "course_id = ? AND membership_id = ?", payload.CourseID, payload.MembershipID).
		Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"status": "unlinked"})
}
