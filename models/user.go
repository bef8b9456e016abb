package models

import (
	"strings"
	"time"

	"github.com/jinzhu/gorm"
)

/************************************************
/**** MARK: USER STATUS ****/
/************************************************/
const USER_STATUS_AVAILABLE = 0
const USER_STATUS_BLOCKED = 2

// User representa uma conta de aluno (ou admin) na plataforma.
type User struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Username  string     `gorm:"not null;unique" json:"username" form:"username"`
	Email     string     `gorm:"not null;unique" json:"email" form:"email"`
	Password  string     `gorm:"not null" json:"-" form:"password"`
	Status    int        `gorm:"default:0" json:"status"`
	Admin     bool       `gorm:"not null;default:false" json:"admin"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// AfterCreate runs inside the create transaction: every new account gets
// exactly one Profile and one UserMembership.
func (user *User) AfterCreate(tx *gorm.DB) error {
	if err := tx.Where(Profile{UserID: user.ID}).FirstOrCreate(&Profile{}).Error; err != nil {
		return err
	}
	return tx.Where(UserMembership{UserID: user.ID}).FirstOrCreate(&UserMembership{}).Error
}

func (user User) MissingFields() string {
	if strings.TrimSpace(user.Username) == "" {
		return "username"
	} else if strings.TrimSpace(user.Email) == "" {
		return "email"
	} else if user.Password == "" {
		return "password"
	}
	return ""
}

func (user User) IsBlocked() bool {
	return user.Status == USER_STATUS_BLOCKED
}
