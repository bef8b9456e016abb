package models

import "time"

// Category agrupa cursos; tem ciclo de vida próprio.
type Category struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Title       string     `gorm:"not null" json:"title" form:"title"`
	Slug        string     `gorm:"not null;unique" json:"slug" form:"slug"`
	Description string     `gorm:"type:text" json:"description" form:"description"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
