package models

import "time"

// Course é o conteúdo vendido; as aulas não-preview só aparecem para os tiers permitidos.
type Course struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CategoryID  *int64     `gorm:"index" json:"category_id" form:"category_id"`
	Title       string     `gorm:"not null" json:"title" form:"title"`
	Slug        string     `gorm:"not null;unique" json:"slug" form:"slug"`
	Description string     `gorm:"type:text" json:"description" form:"description"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`

	Lessons            []Lesson     `gorm:"-" json:"lessons,omitempty"`
	AllowedMemberships []Membership `gorm:"-" json:"allowed_memberships,omitempty"`
}

// CourseMembership liga cursos aos tiers que podem assisti-los (N:N).
type CourseMembership struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CourseID     int64      `gorm:"not null;index;unique_index:ux_course_membership" json:"course_id"`
	MembershipID int64      `gorm:"not null;index;unique_index:ux_course_membership" json:"membership_id"`
	CreatedAt    *time.Time `json:"created_at"`
}
