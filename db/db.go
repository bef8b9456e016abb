package db

import (
	"fmt"
	"os"
	"path/filepath"

	"coursehub/config"
	"coursehub/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/rs/zerolog/log"
)

// Connect abre conexão com o DB configurado (sqlite3 por padrão).
// Com automigrate ligado, o schema é migrado logo após conectar.
func Connect(conf config.Configuration) (*gorm.DB, error) {
	dialect, dsn, err := dataSource(conf)
	if err != nil {
		return nil, err
	}

	log.Info().Str("dialect", dialect).Msg("Abrindo conexão com o banco de dados")
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		log.Error().Err(err).Str("dialect", dialect).Msg("Got error when connect database")
		return nil, err
	}

	// SQL verboso só fora de produção
	db.LogMode(!conf.IsProduction() && conf.LogLevel == "debug")

	if dialect == "sqlite3" {
		// sqlite não lida bem com escritas concorrentes
		db.DB().SetMaxOpenConns(1)
	}

	if conf.AutoMigrate {
		if err := Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

func dataSource(conf config.Configuration) (string, string, error) {
	switch conf.Database {
	case "postgres", "postgresql":
		path := "host=" + conf.DbHost + " port=" + conf.DbPort
		path += " user=" + conf.DbUser + " dbname=" + conf.DbName
		path += " password=" + conf.DbPass + " sslmode=disable"
		return "postgres", path, nil
	case "mysql":
		path := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			conf.DbUser, conf.DbPass, conf.DbHost, conf.DbPort, conf.DbName)
		return "mysql", path, nil
	case "", "sqlite3":
		path := conf.DbPath
		if path == "" {
			path = "db/database.db"
		}
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return "", "", fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return "sqlite3", path, nil
	}
	return "", "", fmt.Errorf("database %q não suportado", conf.Database)
}

// Migrate cria/atualiza as tabelas de todos os models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.RefreshToken{},
		&models.PasswordReset{},
		&models.Category{},
		&models.Course{},
		&models.Lesson{},
		&models.Membership{},
		&models.CourseMembership{},
		&models.UserMembership{},
		&models.Subscription{},
	).Error
	if err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
