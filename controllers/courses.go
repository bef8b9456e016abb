package controllers

import (
	"net/http"

	"coursehub/access"
	dbpkg "coursehub/db"
	"coursehub/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

func loadAllowedMemberships(db *gorm.DB, courseID int64) ([]models.Membership, error) {
	var list []models.Membership
	err := db.Table("memberships").
		Select("memberships.*").
		Joins("JOIN course_memberships ON course_memberships.membership_id = memberships.id").
		Where("course_memberships.course_id = ?", courseID).
		Order("memberships.price_cents asc").
		Find(&list).Error
	return list, err
}

func loadLessons(db *gorm.DB, courseID int64) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := db.Where("course_id = ?", courseID).Order(models.LessonOrder).Find(&lessons).Error
	return lessons, err
}

func resolveVideo(c *gin.Context, ref string) string {
	s := ServicesInstance(c)
	if s == nil || s.Videos == nil {
		return ref
	}
	u, err := s.Videos.Resolve(requestCtx(c), ref)
	if err != nil {
		s.Logger.Warn().Err(err).Str("video", ref).Msg("video não resolvido")
		return ""
	}
	return u
}

// GET /courses/?category=<slug>
func CourseList(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		renderError(c, http.StatusInternalServerError, "db não configurado no contexto")
		return
	}

	query := db.Order("title asc")
	data := gin.H{"title": "Courses"}
	if slug := c.Query("category"); slug != "" {
		var category models.Category
		if err := db.Where("slug = ?", slug).First(&category).Error; err != nil {
			render(c, http.StatusOK, "course_list.html", data)
			return
		}
		data["category"] = category
		query = query.Where("category_id = ?", category.ID)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	data["courses"] = courses
	render(c, http.StatusOK, "course_list.html", data)
}

// GET /courses/:slug/ (login required)
func CourseDetail(c *gin.Context) {
	user, _ := GetUserLogged(c)
	db := dbpkg.DBInstance(c)
	if db == nil {
		renderError(c, http.StatusInternalServerError, "db não configurado no contexto")
		return
	}

	var course models.Course
	if err := db.Where("slug = ?", c.Param("slug")).First(&course).Error; err != nil {
		notFound(c)
		return
	}

	var err error
	if course.Lessons, err = loadLessons(db, course.ID); err != nil {
		renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if course.AllowedMemberships, err = loadAllowedMemberships(db, course.ID); err != nil {
		renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	decision, err := access.Check(db, user.ID, course.ID)
	if err != nil {
		renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	demos := access.FreePreviews(course.Lessons)
	first, showingDemo := access.RevealFirst(course.Lessons, decision.Allowed)

	data := gin.H{
		"title":            course.Title,
		"course":           course,
		"lessons":          course.Lessons,
		"has_access":       decision.Allowed,
		"demo_lessons":     demos,
		"has_demo_lessons": len(demos) > 0,
		"showing_demo":     showingDemo,
	}
	if first != nil {
		data["first_lesson"] = first
		data["first_video"] = resolveVideo(c, first.Video)
	}
	render(c, http.StatusOK, "course_detail.html", data)
}

var lockedLessonMessages = map[access.Reason]string{
	access.ReasonNoUserMembership: "You need to create a membership to access this lesson.",
	access.ReasonNoTier:           "You need to select a membership to access this lesson.",
	access.ReasonTierNotAllowed:   "You need to upgrade your membership to access this lesson.",
}

// GET /courses/:slug/:lesson_slug/ (login required)
// A aula é buscada dentro do curso da URL.
func LessonDetail(c *gin.Context) {
	user, _ := GetUserLogged(c)
	db := dbpkg.DBInstance(c)
	if db == nil {
		renderError(c, http.StatusInternalServerError, "db não configurado no contexto")
		return
	}

	var course models.Course
	if err := db.Where("slug = ?", c.Param("slug")).First(&course).Error; err != nil {
		notFound(c)
		return
	}
	var lesson models.Lesson
	if err := db.Where("course_id = ? AND slug = ?", course.ID, c.Param("lesson_slug")).First(&lesson).Error; err != nil {
		notFound(c)
		return
	}

	decision, err := access.CanViewLesson(db, user.ID, lesson)
	if err != nil {
		renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	data := gin.H{"title": lesson.Title, "course": course}
	if decision.Allowed {
		data["lesson"] = lesson
		data["is_demo"] = decision.Reason == access.ReasonFreePreview
		data["video"] = resolveVideo(c, lesson.Video)
	} else if msg, ok := lockedLessonMessages[decision.Reason]; ok {
		flash(c, FLASH_INFO, msg)
	}
	render(c, http.StatusOK, "lesson_detail.html", data)
}
