package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"coursehub/models"
	"coursehub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(v any) int64 {
	return int64(v.(map[string]any)["id"].(float64))
}

func TestAdmin_RequiresAdmin(t *testing.T) {
	e := newEnv(t)
	e.user(t, "ana", false)
	b := e.browser(t)

	status, _ := b.api(http.MethodGet, "/api/admin/categories", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = b.api(http.MethodGet, "/api/admin/categories", b.apiLogin("ana"), nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAdmin_CatalogCRUD(t *testing.T) {
	e := newEnv(t)
	e.user(t, "root", true)
	b := e.browser(t)
	token := b.apiLogin("root")
	pro := testutil.Tier(t, e.db, models.MEMBERSHIP_TYPE_PROFESSIONAL)

	// categoria com slug gerado
	status, out := b.api(http.MethodPost, "/api/admin/categories", token, map[string]any{"title": "Back End"})
	require.Equal(t, http.StatusOK, status, out)
	category := out["category"].(map[string]any)
	assert.Equal(t, "back-end", category["slug"])
	categoryID := id(category)

	status, _ = b.api(http.MethodPost, "/api/admin/categories", token, map[string]any{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, status)

	// cursos
	status, out = b.api(http.MethodPost, "/api/admin/courses", token, map[string]any{"title": "Go Basics", "category_id": categoryID})
	require.Equal(t, http.StatusOK, status, out)
	course := out["course"].(map[string]any)
	assert.Equal(t, "go-basics", course["slug"])
	courseID := id(course)

	status, _ = b.api(http.MethodPost, "/api/admin/courses", token, map[string]any{"title": "X", "category_id": 999})
	assert.Equal(t, http.StatusNotFound, status)

	status, out = b.api(http.MethodPost, "/api/admin/courses", token, map[string]any{"title": "Kubernetes", "slug": "k8s"})
	require.Equal(t, http.StatusOK, status, out)
	k8sID := id(out["course"])

	// vínculo curso <-> tier
	link := map[string]any{"course_id": courseID, "membership_id": pro.ID}
	status, out = b.api(http.MethodPost, "/api/admin/course-memberships", token, link)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "linked", out["status"])
	_, out = b.api(http.MethodPost, "/api/admin/course-memberships", token, link)
	assert.Equal(t, "already_linked", out["status"])

	// aulas
	mk := func(course int64, title string, position int, preview bool) int64 {
		status, out := b.api(http.MethodPost, "/api/admin/lessons", token, map[string]any{
			"course_id": course, "title": title, "position": position, "is_free_preview": preview, "video": "videos/" + title + ".mp4",
		})
		require.Equal(t, http.StatusOK, status, out)
		return id(out["lesson"])
	}
	mk(courseID, "Intro", 1, true)
	channelsID := mk(courseID, "Channels", 2, false)
	mk(k8sID, "Pods", 1, false)

	status, _ = b.api(http.MethodPost, "/api/admin/lessons", token, map[string]any{"course_id": 999, "title": "Nope"})
	assert.Equal(t, http.StatusNotFound, status)

	status, out = b.api(http.MethodGet, fmt.Sprintf("/api/admin/courses/%d", courseID), token, nil)
	require.Equal(t, http.StatusOK, status)
	detail := out["course"].(map[string]any)
	assert.Len(t, detail["lessons"], 2)
	assert.Len(t, detail["allowed_memberships"], 1)

	titles := func(query string) []string {
		status, out := b.api(http.MethodGet, "/api/admin/lessons"+query, token, nil)
		require.Equal(t, http.StatusOK, status, out)
		var names []string
		if list, ok := out["lessons"].([]any); ok {
			for _, l := range list {
				names = append(names, l.(map[string]any)["title"].(string))
			}
		}
		return names
	}
	assert.Equal(t, []string{"Intro", "Channels", "Pods"}, titles(""))
	assert.Equal(t, []string{"Intro", "Channels"}, titles(fmt.Sprintf("?course_id=%d", courseID)))
	assert.Equal(t, []string{"Intro"}, titles("?is_free_preview=true"))
	assert.Equal(t, []string{"Pods"}, titles("?q=kubern"))
	assert.Equal(t, []string{"Channels"}, titles("?q=CHAN"))

	status, _ = b.api(http.MethodGet, "/api/admin/lessons?is_free_preview=maybe", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// edição inline
	status, _ = b.api(http.MethodPatch, fmt.Sprintf("/api/admin/lessons/%d", channelsID), token, map[string]any{"position": 0, "is_free_preview": true})
	require.Equal(t, http.StatusOK, status)
	var channels models.Lesson
	require.NoError(t, e.db.First(&channels, channelsID).Error)
	assert.Equal(t, 0, channels.Position)
	assert.True(t, channels.IsFreePreview)
	assert.Equal(t, []string{"Channels", "Intro"}, titles(fmt.Sprintf("?course_id=%d", courseID)))

	status, _ = b.api(http.MethodPatch, fmt.Sprintf("/api/admin/lessons/%d", channelsID), token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)

	// desvincula
	status, out = b.api(http.MethodDelete, "/api/admin/course-memberships", token, link)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "unlinked", out["status"])

	// apagar categoria deixa o curso sem categoria
	status, _ = b.api(http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", categoryID), token, nil)
	require.Equal(t, http.StatusOK, status)
	var goCourse models.Course
	require.NoError(t, e.db.First(&goCourse, courseID).Error)
	assert.Nil(t, goCourse.CategoryID)

	// apagar curso leva as aulas
	status, _ = b.api(http.MethodDelete, fmt.Sprintf("/api/admin/courses/%d", courseID), token, nil)
	require.Equal(t, http.StatusOK, status)
	var remaining int
	require.NoError(t, e.db.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestAdmin_Memberships(t *testing.T) {
	e := newEnv(t)
	e.user(t, "root", true)
	member := e.user(t, "ana", false)
	b := e.browser(t)
	token := b.apiLogin("root")

	free := testutil.Tier(t, e.db, models.MEMBERSHIP_TYPE_FREE)
	ent := testutil.Tier(t, e.db, models.MEMBERSHIP_TYPE_ENTERPRISE)
	testutil.SetTier(t, e.db, member.ID, &ent)
	testutil.CreateCourse(t, e.db, "k8s", ent)

	status, _ := b.api(http.MethodPost, "/api/admin/memberships", token, map[string]any{"membership_type": "gold", "name": "Gold"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, out := b.api(http.MethodPut, fmt.Sprintf("/api/admin/memberships/%d", ent.ID), token, map[string]any{
		"price_cents": 5000, "billing_plan_id": "price_ent",
	})
	require.Equal(t, http.StatusOK, status, out)
	updated := out["membership"].(map[string]any)
	assert.Equal(t, float64(5000), updated["price_cents"])
	assert.Equal(t, "price_ent", updated["billing_plan_id"])
	assert.Equal(t, "enterprise", updated["membership_type"])
	assert.Equal(t, "Every course, for teams.", updated["description"])

	status, _ = b.api(http.MethodDelete, fmt.Sprintf("/api/admin/memberships/%d", free.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = b.api(http.MethodDelete, fmt.Sprintf("/api/admin/memberships/%d", ent.ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	var um models.UserMembership
	require.NoError(t, e.db.Where("user_id = ?", member.ID).First(&um).Error)
	assert.Nil(t, um.MembershipID)

	var links int
	require.NoError(t, e.db.Model(&models.CourseMembership{}).Count(&links).Error)
	assert.Zero(t, links)

	status, _ = b.api(http.MethodGet, fmt.Sprintf("/api/memberships/%d", ent.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPIUpdateProfile(t *testing.T) {
	e := newEnv(t)
	e.user(t, "ana", false)
	b := e.browser(t)

	status, out := b.api(http.MethodPut, "/api/me/profile", b.apiLogin("ana"), map[string]any{
		"bio": " hi ", "user_id": 99,
	})
	require.Equal(t, http.StatusOK, status)
	profile := out["profile"].(map[string]any)
	assert.Equal(t, "hi", profile["bio"])
	assert.NotEqual(t, float64(99), profile["user_id"])
}
