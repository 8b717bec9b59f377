package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/permission"
	"reviewhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) Get(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, in service.UserInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, username string, in service.UserInput) (*models.User, error) {
	args := m.Called(ctx, username, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserService) UpdateSelf(ctx context.Context, actor permission.Actor, in service.UserInput) (*models.User, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// withActor injects an authenticated actor the way the auth middleware does.
func withActor(actor permission.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("actor", actor)
		c.Next()
	}
}

func setupUserRouter(svc *MockUserService, actor permission.Actor) *gin.Engine {
	router := setupRouter()
	group := router.Group("/users", withActor(actor))
	NewUserHandler(svc).RegisterRoutes(group)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func adminActor() permission.Actor {
	return permission.Actor{ID: "a1", Username: "boss", Role: models.RoleAdmin, Authenticated: true}
}

func plainActor() permission.Actor {
	return permission.Actor{ID: "u1", Username: "plain", Role: models.RoleUser, Authenticated: true}
}

func TestUserList_AdminOnly(t *testing.T) {
	svc := new(MockUserService)
	router := setupUserRouter(svc, plainActor())

	w := doRequest(router, http.MethodGet, "/users", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserList_Envelope(t *testing.T) {
	svc := new(MockUserService)
	router := setupUserRouter(svc, adminActor())

	users := []models.User{{Username: "one", Email: "one@example.com", Role: models.RoleUser}}
	svc.On("List", mock.Anything, "", 10, 0).Return(users, int64(1), nil)

	w := doRequest(router, http.MethodGet, "/users", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count   int64             `json:"count"`
		Results []json.RawMessage `json:"results"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Count)
	assert.Len(t, resp.Results, 1)
}

func TestUserGet_SelfProfile(t *testing.T) {
	svc := new(MockUserService)
	router := setupUserRouter(svc, plainActor())

	svc.On("Get", mock.Anything, "plain").Return(&models.User{Username: "plain", Email: "plain@example.com", Role: models.RoleUser}, nil)

	w := doRequest(router, http.MethodGet, "/users/me", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "plain", resp["username"])
}

func TestUserGet_OtherProfileForbiddenForNonAdmin(t *testing.T) {
	svc := new(MockUserService)
	router := setupUserRouter(svc, plainActor())

	w := doRequest(router, http.MethodGet, "/users/somebody", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestUserUpdate_SelfGoesThroughUpdateSelf(t *testing.T) {
	svc := new(MockUserService)
	actor := plainActor()
	router := setupUserRouter(svc, actor)

	updated := &models.User{Username: "plain", Email: "plain@example.com", Role: models.RoleUser, Bio: "new bio"}
	svc.On("UpdateSelf", mock.Anything, actor, mock.AnythingOfType("service.UserInput")).Return(updated, nil)

	w := doRequest(router, http.MethodPatch, "/users/me", `{"bio":"new bio","role":"admin"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user", resp["role"])
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserDelete_SelfNotAllowed(t *testing.T) {
	svc := new(MockUserService)
	router := setupUserRouter(svc, adminActor())

	w := doRequest(router, http.MethodDelete, "/users/me", "")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUserDelete_AdminDeletesUser(t *testing.T) {
	svc := new(MockUserService)
	router := setupUserRouter(svc, adminActor())

	svc.On("Delete", mock.Anything, "goner").Return(nil)

	w := doRequest(router, http.MethodDelete, "/users/goner", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
