package testutil

import (
	"testing"

	"coursehub/db"
	"coursehub/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/require"
)

// NewDB devolve um sqlite em memória já migrado e com os tiers padrão.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// cada conexão nova seria um banco vazio
	conn.DB().SetMaxOpenConns(1)
	conn.LogMode(false)

	require.NoError(t, db.Migrate(conn))
	for _, m := range models.DefaultMemberships() {
		tier := m
		require.NoError(t, conn.Create(&tier).Error)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

func CreateUser(t *testing.T, conn *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, conn.Create(&u).Error)
	return u
}

func Tier(t *testing.T, conn *gorm.DB, membershipType string) models.Membership {
	t.Helper()
	var m models.Membership
	require.NoError(t, conn.Where("membership_type = ?", membershipType).First(&m).Error)
	return m
}

// CreateCourse cria um curso liberado para os tiers informados.
func CreateCourse(t *testing.T, conn *gorm.DB, slug string, tiers ...models.Membership) models.Course {
	t.Helper()
	c := models.Course{Title: slug, Slug: slug}
	require.NoError(t, conn.Create(&c).Error)
	for _, m := range tiers {
		require.NoError(t, conn.Create(&models.CourseMembership{CourseID: c.ID, MembershipID: m.ID}).Error)
	}
	return c
}

func CreateLesson(t *testing.T, conn *gorm.DB, course models.Course, slug string, position int, preview bool) models.Lesson {
	t.Helper()
	l := models.Lesson{CourseID: course.ID, Title: slug, Slug: slug, Position: position, IsFreePreview: preview, Video: slug + ".mp4"}
	require.NoError(t, conn.Create(&l).Error)
	return l
}

// SetTier troca o tier atual do usuário (nil limpa).
func SetTier(t *testing.T, conn *gorm.DB, userID int64, m *models.Membership) {
	t.Helper()
	var id *int64
	if m != nil {
		id = &m.ID
	}
	require.NoError(t, conn.Model(&models.UserMembership{}).Where("user_id = ?", userID).
		Update("membership_id", id).Error)
}
