package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/mailer"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken = errors.New("invalid token")

	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// reservedUsername is used by the self-profile route and may not be claimed.
const reservedUsername = "me"

// Claims carried by an access token.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Superuser bool   `json:"superuser,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Signup creates (or re-targets) the user record, stores a hash of a
	// fresh confirmation code and emails the plaintext code.
	Signup(ctx context.Context, username, email string) (*models.User, error)
	// IssueToken exchanges a confirmation code for a signed access token.
	IssueToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	mail           mailer.Mailer
	logger         *slog.Logger
	secret         string
	accessTokenTTL time.Duration
	domainName     string
}

func NewAuthService(userRepo repository.UserRepository, mail mailer.Mailer, cfg *config.Config, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:       userRepo,
		mail:           mail,
		logger:         logger,
		secret:         cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
		domainName:     cfg.DomainName,
	}
}

func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if username == reservedUsername {
		return nil, validationErr("username", "username %q is reserved", reservedUsername)
	}
	if username == "" || len(username) > 150 || !usernameRe.MatchString(username) {
		return nil, validationErr("username", "enter a valid username: letters, digits and @/./+/-/_ only")
	}
	if !emailRe.MatchString(email) || len(email) > 254 {
		return nil, validationErr("email", "enter a valid email address")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		// Re-signup for the same pair re-issues a code; a taken username
		// with a different email is a uniqueness violation.
		if user.Email != email {
			return nil, validationErr("username", "username already in use")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			return nil, validationErr("email", "email already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = &models.User{
			ID:       uuid.New().String(),
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateUser) {
				// lost the race against a concurrent signup
				return nil, validationErr("username", "username or email already in use")
			}
			return nil, err
		}
	default:
		return nil, err
	}

	code := s.confirmationCode(user)
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.ConfirmationCode = string(hash)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Best effort: a mail outage must not block account creation.
	body := fmt.Sprintf("%s, your confirmation code for %s: %s\nExchange it at /v1/auth/token/", user.Username, s.domainName, code)
	if err := s.mail.Send(ctx, "Confirmation code", body, []string{user.Email}); err != nil {
		s.logger.Error("failed to send confirmation email", "username", user.Username, "error", err)
	}

	return user, nil
}

func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.ConfirmationCode), []byte(code)); err != nil {
		return "", validationErr("confirmation_code", "invalid confirmation code: %s", code)
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Superuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// confirmationCode derives the one-time code as an HMAC over the user's
// mutable state, keyed by the server secret. Any change to the record
// invalidates outstanding codes without storing an expiry.
func (s *authService) confirmationCode(user *models.User) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	fmt.Fprintf(mac, "%s|%s|%s|%s", user.ID, user.Username, user.Email, user.Role)
	return hex.EncodeToString(mac.Sum(nil))
}
