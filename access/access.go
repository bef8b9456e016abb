// Package access decide se um usuário pode assistir as aulas de um curso.
package access

import (
	"fmt"

	"coursehub/models"

	"github.com/jinzhu/gorm"
)

type Reason string

const (
	ReasonAllowed          Reason = "allowed"
	ReasonFreePreview      Reason = "free_preview"
	ReasonNoUserMembership Reason = "no_user_membership"
	ReasonNoTier           Reason = "no_tier"
	ReasonTierNotAllowed   Reason = "tier_not_allowed"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

// Check: o usuário tem acesso se tiver um UserMembership, com tier definido,
// e esse tier estiver entre os tiers permitidos do curso.
func Check(db *gorm.DB, userID, courseID int64) (Decision, error) {
	var um models.UserMembership
	err := db.Where("user_id = ?", userID).First(&um).Error
	if gorm.IsRecordNotFoundError(err) {
		return Decision{Reason: ReasonNoUserMembership}, nil
	}
	if err != nil {
		return Decision{}, fmt.Errorf("load user membership: %w", err)
	}
	if !um.HasTier() {
		return Decision{Reason: ReasonNoTier}, nil
	}

	var count int
	err = db.Model(&models.CourseMembership{}).
		Where("course_id = ? AND membership_id = ?", courseID, *um.MembershipID).
		Count(&count).Error
	if err != nil {
		return Decision{}, fmt.Errorf("check course membership: %w", err)
	}
	if count == 0 {
		return Decision{Reason: ReasonTierNotAllowed}, nil
	}
	return Decision{Allowed: true, Reason: ReasonAllowed}, nil
}

// CanViewLesson libera aulas de preview para qualquer um; as demais passam pelo Check.
func CanViewLesson(db *gorm.DB, userID int64, lesson models.Lesson) (Decision, error) {
	if lesson.IsFreePreview {
		return Decision{Allowed: true, Reason: ReasonFreePreview}, nil
	}
	return Check(db, userID, lesson.CourseID)
}

// FreePreviews filtra as aulas de demonstração, mantendo a ordem.
func FreePreviews(lessons []models.Lesson) []models.Lesson {
	out := make([]models.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if l.IsFreePreview {
			out = append(out, l)
		}
	}
	return out
}

// RevealFirst escolhe a aula exibida na página do curso.
// lessons precisa estar ordenado por models.LessonOrder.
func RevealFirst(lessons []models.Lesson, hasAccess bool) (*models.Lesson, bool) {
	if !hasAccess {
		demos := FreePreviews(lessons)
		if len(demos) == 0 {
			return nil, false
		}
		first := demos[0]
		return &first, true
	}
	if len(lessons) == 0 {
		return nil, false
	}
	first := lessons[0]
	return &first, first.IsFreePreview
}
