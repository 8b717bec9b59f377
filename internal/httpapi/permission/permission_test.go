package permission

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"reviewhub/internal/httpapi/models"
)

func anon() Actor {
	return Actor{}
}

func user(id string) Actor {
	return Actor{ID: id, Role: models.RoleUser, Authenticated: true}
}

func moderator() Actor {
	return Actor{ID: "mod-id", Role: models.RoleModerator, Authenticated: true}
}

func admin() Actor {
	return Actor{ID: "admin-id", Role: models.RoleAdmin, Authenticated: true}
}

func TestAdminOrReadOnly(t *testing.T) {
	t.Run("SafeMethodsOpenToAnyone", func(t *testing.T) {
		assert.NoError(t, AdminOrReadOnly(anon(), http.MethodGet))
		assert.NoError(t, AdminOrReadOnly(anon(), http.MethodHead))
		assert.NoError(t, AdminOrReadOnly(user("u1"), http.MethodGet))
	})

	t.Run("WriteRequiresAuthentication", func(t *testing.T) {
		assert.ErrorIs(t, AdminOrReadOnly(anon(), http.MethodPost), ErrNotAuthenticated)
	})

	t.Run("WriteRequiresAdmin", func(t *testing.T) {
		assert.ErrorIs(t, AdminOrReadOnly(user("u1"), http.MethodPost), ErrForbidden)
		assert.ErrorIs(t, AdminOrReadOnly(moderator(), http.MethodDelete), ErrForbidden)
		assert.NoError(t, AdminOrReadOnly(admin(), http.MethodPost))
	})

	t.Run("SuperuserCountsAsAdmin", func(t *testing.T) {
		su := Actor{ID: "su", Role: models.RoleUser, IsSuperuser: true, Authenticated: true}
		assert.NoError(t, AdminOrReadOnly(su, http.MethodDelete))
	})
}

func TestStaffOrAuthorOrReadOnly(t *testing.T) {
	assert.NoError(t, StaffOrAuthorOrReadOnly(anon(), http.MethodGet))
	assert.ErrorIs(t, StaffOrAuthorOrReadOnly(anon(), http.MethodPost), ErrNotAuthenticated)
	assert.NoError(t, StaffOrAuthorOrReadOnly(user("u1"), http.MethodPost))
}

func TestStaffOrAuthor(t *testing.T) {
	t.Run("OwnerMayMutate", func(t *testing.T) {
		assert.NoError(t, StaffOrAuthor(user("u1"), "u1", http.MethodDelete))
		assert.NoError(t, StaffOrAuthor(user("u1"), "u1", http.MethodPatch))
	})

	t.Run("NonOwnerDenied", func(t *testing.T) {
		assert.ErrorIs(t, StaffOrAuthor(user("u1"), "someone-else", http.MethodDelete), ErrForbidden)
	})

	t.Run("StaffMayMutateAnything", func(t *testing.T) {
		assert.NoError(t, StaffOrAuthor(moderator(), "someone-else", http.MethodDelete))
		assert.NoError(t, StaffOrAuthor(admin(), "someone-else", http.MethodPatch))
	})

	t.Run("ReadsAlwaysAllowed", func(t *testing.T) {
		assert.NoError(t, StaffOrAuthor(anon(), "someone-else", http.MethodGet))
	})

	t.Run("AnonymousWriteIsUnauthenticated", func(t *testing.T) {
		assert.ErrorIs(t, StaffOrAuthor(anon(), "someone-else", http.MethodDelete), ErrNotAuthenticated)
	})
}

func TestAdminOnly(t *testing.T) {
	assert.ErrorIs(t, AdminOnly(anon()), ErrNotAuthenticated)
	assert.ErrorIs(t, AdminOnly(user("u1")), ErrForbidden)
	assert.ErrorIs(t, AdminOnly(moderator()), ErrForbidden)
	assert.NoError(t, AdminOnly(admin()))
}
