package service

import (
	"testing"

	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/permission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func TestUserCreate_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("FindByUsername", mock.Anything, "fresh").Return(nil, gorm.ErrRecordNotFound)
	repo.On("FindByEmail", mock.Anything, "fresh@example.com").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Create(t.Context(), UserInput{
		Username: strPtr("fresh"),
		Email:    strPtr("fresh@example.com"),
		Role:     strPtr(models.RoleModerator),
	})

	assert.NoError(t, err)
	assert.Equal(t, "fresh", user.Username)
	assert.Equal(t, models.RoleModerator, user.Role)
	assert.NotEmpty(t, user.ID)
	repo.AssertExpectations(t)
}

func TestUserCreate_BadRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("FindByUsername", mock.Anything, "fresh").Return(nil, gorm.ErrRecordNotFound)
	repo.On("FindByEmail", mock.Anything, "fresh@example.com").Return(nil, gorm.ErrRecordNotFound)

	user, err := svc.Create(t.Context(), UserInput{
		Username: strPtr("fresh"),
		Email:    strPtr("fresh@example.com"),
		Role:     strPtr("overlord"),
	})

	assert.Nil(t, user)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "role", vErr.Field)
}

func TestUserCreate_ReservedUsername(t *testing.T) {
	svc := NewUserService(new(MockUserRepository))

	user, err := svc.Create(t.Context(), UserInput{Username: strPtr("me"), Email: strPtr("me@example.com")})

	assert.Nil(t, user)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "username", vErr.Field)
}

func TestUserGet_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	user, err := svc.Get(t.Context(), "ghost")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserUpdateSelf_RoleRevertedForNonAdmin(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	current := &models.User{ID: "u1", Username: "plain", Email: "plain@example.com", Role: models.RoleUser}
	repo.On("FindByID", mock.Anything, "u1").Return(current, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	actor := permission.Actor{ID: "u1", Username: "plain", Role: models.RoleUser, Authenticated: true}
	user, err := svc.UpdateSelf(t.Context(), actor, UserInput{
		Bio:  strPtr("new bio"),
		Role: strPtr(models.RoleAdmin),
	})

	assert.NoError(t, err)
	assert.Equal(t, "new bio", user.Bio)
	assert.Equal(t, models.RoleUser, user.Role)
	repo.AssertExpectations(t)
}

func TestUserUpdateSelf_AdminMayChangeRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	current := &models.User{ID: "a1", Username: "boss", Email: "boss@example.com", Role: models.RoleAdmin}
	repo.On("FindByID", mock.Anything, "a1").Return(current, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	actor := permission.Actor{ID: "a1", Username: "boss", Role: models.RoleAdmin, Authenticated: true}
	user, err := svc.UpdateSelf(t.Context(), actor, UserInput{Role: strPtr(models.RoleModerator)})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleModerator, user.Role)
}

func TestUserUpdate_UsernameConflict(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	current := &models.User{ID: "u1", Username: "old", Email: "old@example.com", Role: models.RoleUser}
	taken := &models.User{ID: "u2", Username: "taken"}
	repo.On("FindByUsername", mock.Anything, "old").Return(current, nil)
	repo.On("FindByUsername", mock.Anything, "taken").Return(taken, nil)

	user, err := svc.Update(t.Context(), "old", UserInput{Username: strPtr("taken")})

	assert.Nil(t, user)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "username", vErr.Field)
}

func TestUserDelete_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("FindByUsername", mock.Anything, "gone").Return(&models.User{ID: "u9", Username: "gone"}, nil)
	repo.On("Delete", mock.Anything, "u9").Return(nil)

	err := svc.Delete(t.Context(), "gone")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
