package service

import (
	"context"
	"errors"

	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/permission"
	"reviewhub/internal/httpapi/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserInput is the admin write shape for users. Nil pointers mean "leave
// unchanged" on partial updates.
type UserInput struct {
	Username  *string
	Email     *string
	Role      *string
	Bio       *string
	FirstName *string
	LastName  *string
}

type UserService interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error)
	Get(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, in UserInput) (*models.User, error)
	Update(ctx context.Context, username string, in UserInput) (*models.User, error)
	Delete(ctx context.Context, username string) error
	// UpdateSelf applies a partial update to the actor's own record. The
	// role field is reverted to the caller's current role unless the caller
	// is an admin.
	UpdateSelf(ctx context.Context, actor permission.Actor, in UserInput) (*models.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context, search string, limit, offset int) ([]models.User, int64, error) {
	return s.repo.List(ctx, search, limit, offset)
}

func (s *userService) Get(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if in.Username == nil || in.Email == nil {
		return nil, validationErr("username", "username and email are required")
	}
	username, email := *in.Username, *in.Email
	if username == reservedUsername {
		return nil, validationErr("username", "username %q is reserved", reservedUsername)
	}
	if username == "" || len(username) > 150 || !usernameRe.MatchString(username) {
		return nil, validationErr("username", "enter a valid username: letters, digits and @/./+/-/_ only")
	}
	if !emailRe.MatchString(email) || len(email) > 254 {
		return nil, validationErr("email", "enter a valid email address")
	}
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, validationErr("username", "username already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, validationErr("email", "email already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return nil, validationErr("role", "role must be one of: user, moderator, admin")
		}
		user.Role = *in.Role
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, validationErr("username", "username or email already in use")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, username string, in UserInput) (*models.User, error) {
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.applyUpdate(ctx, user, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, validationErr("username", "username or email already in use")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.Get(ctx, username)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, user.ID)
}

func (s *userService) UpdateSelf(ctx context.Context, actor permission.Actor, in UserInput) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() {
		// Silently revert: the request succeeds, the role stays.
		in.Role = nil
	}
	if err := s.applyUpdate(ctx, user, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, validationErr("username", "username or email already in use")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) applyUpdate(ctx context.Context, user *models.User, in UserInput) error {
	if in.Username != nil && *in.Username != user.Username {
		username := *in.Username
		if username == reservedUsername {
			return validationErr("username", "username %q is reserved", reservedUsername)
		}
		if username == "" || len(username) > 150 || !usernameRe.MatchString(username) {
			return validationErr("username", "enter a valid username: letters, digits and @/./+/-/_ only")
		}
		if _, err := s.repo.FindByUsername(ctx, username); err == nil {
			return validationErr("username", "username already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user.Username = username
	}
	if in.Email != nil && *in.Email != user.Email {
		email := *in.Email
		if !emailRe.MatchString(email) || len(email) > 254 {
			return validationErr("email", "enter a valid email address")
		}
		if _, err := s.repo.FindByEmail(ctx, email); err == nil {
			return validationErr("email", "email already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user.Email = email
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return validationErr("role", "role must be one of: user, moderator, admin")
		}
		user.Role = *in.Role
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	return nil
}
