package models

import "time"

// PasswordReset representa um código temporário para o fluxo de "Esqueci minha senha".
// Guardamos apenas o HASH do código (nunca o código em texto puro).
type PasswordReset struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	TokenHash string     `gorm:"not null;index" json:"-"`
	Channel   string     `gorm:"not null;default:'email'" json:"channel"`
	ExpiresAt *time.Time `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (pr PasswordReset) IsUsable(now time.Time) bool {
	if pr.UsedAt != nil {
		return false
	}
	return pr.ExpiresAt != nil && now.Before(*pr.ExpiresAt)
}
