package models

import "time"

// Profile guarda os dados públicos do aluno; criado junto com o User.
type Profile struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID    int64      `gorm:"not null;unique_index" json:"user_id"`
	Bio       string     `gorm:"type:text" json:"bio" form:"bio"`
	AvatarURL string     `gorm:"column:avatar_url" json:"avatar_url" form:"avatar_url"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
