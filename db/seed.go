package db

import (
	"fmt"
	"strings"

	"coursehub/config"
	"coursehub/models"
	"coursehub/tools"

	"github.com/jinzhu/gorm"
	"github.com/rs/zerolog/log"
)

// Seed garante os tiers de referência e, se configurado, um admin inicial.
// Pode rodar a cada boot: nada é duplicado.
func Seed(db *gorm.DB, conf config.Configuration) error {
	for _, m := range models.DefaultMemberships() {
		tier := m
		res := db.Where(models.Membership{Type: tier.Type}).
			Attrs(tier).
			FirstOrCreate(&tier)
		if res.Error != nil {
			return fmt.Errorf("seed membership %s: %w", m.Type, res.Error)
		}
	}

	return seedAdmin(db, conf)
}

func seedAdmin(db *gorm.DB, conf config.Configuration) error {
	email := strings.TrimSpace(strings.ToLower(conf.Admin.Email))
	if email == "" || conf.Admin.Password == "" {
		return nil
	}

	var count int
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("seed admin lookup: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := tools.HashPassword(conf.Admin.Password, conf.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("seed admin password: %w", err)
	}

	username := conf.Admin.Username
	if username == "" {
		username = "admin"
	}
	admin := models.User{Username: username, Email: email, Password: hash, Admin: true}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info().Str("email", email).Msg("Admin inicial criado")
	return nil
}
