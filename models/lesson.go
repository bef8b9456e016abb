package models

import "time"

// Lesson pertence a um único Course. Position define a ordem de exibição.
type Lesson struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CourseID      int64      `gorm:"not null;index;unique_index:ux_course_lesson_slug" json:"course_id" form:"course_id"`
	Title         string     `gorm:"not null" json:"title" form:"title"`
	Slug          string     `gorm:"not null;unique_index:ux_course_lesson_slug" json:"slug" form:"slug"`
	Description   string     `gorm:"type:text" json:"description" form:"description"`
	Position      int        `gorm:"not null;default:0" json:"position" form:"position"`
	IsFreePreview bool       `gorm:"not null" json:"is_free_preview" form:"is_free_preview"`
	Video         string     `gorm:"type:text" json:"video" form:"video"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// LessonOrder is the ORDER BY used wherever lessons are listed.
const LessonOrder = "position asc, id asc"
