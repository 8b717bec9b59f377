// Package permission holds the authorization rules as plain functions over an
// Actor and an HTTP method. Request-level checks gate whether an endpoint may
// be hit at all; object-level checks additionally look at the resource owner.
// Both must pass for unsafe methods.
package permission

import (
	"errors"
	"net/http"

	"reviewhub/internal/httpapi/models"
)

var (
	ErrNotAuthenticated = errors.New("authentication required")
	ErrForbidden        = errors.New("you do not have permission to perform this action")
)

// Actor is the requesting identity as carried by the bearer token.
// The zero value is an anonymous actor.
type Actor struct {
	ID            string
	Username      string
	Role          string
	IsSuperuser   bool
	Authenticated bool
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated && (a.Role == models.RoleAdmin || a.IsSuperuser)
}

func (a Actor) IsStaff() bool {
	return a.Authenticated && (a.Role == models.RoleModerator || a.Role == models.RoleAdmin)
}

// SafeMethod reports whether the method is read-only.
func SafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// AdminOrReadOnly allows safe methods for anyone; unsafe methods require an
// authenticated admin. Governs categories, genres and titles.
func AdminOrReadOnly(a Actor, method string) error {
	if SafeMethod(method) {
		return nil
	}
	if !a.Authenticated {
		return ErrNotAuthenticated
	}
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// StaffOrAuthorOrReadOnly is the request-level check for reviews and
// comments: reads are open, writes need authentication. Ownership is checked
// separately with StaffOrAuthor once the resource is loaded.
func StaffOrAuthorOrReadOnly(a Actor, method string) error {
	if SafeMethod(method) {
		return nil
	}
	if !a.Authenticated {
		return ErrNotAuthenticated
	}
	return nil
}

// StaffOrAuthor is the object-level check for reviews and comments: unsafe
// methods require the actor to own the resource or hold a staff role.
func StaffOrAuthor(a Actor, ownerID, method string) error {
	if SafeMethod(method) {
		return nil
	}
	if !a.Authenticated {
		return ErrNotAuthenticated
	}
	if a.IsStaff() || a.ID == ownerID {
		return nil
	}
	return ErrForbidden
}

// AdminOnly requires admin for every method. Governs user management.
func AdminOnly(a Actor) error {
	if !a.Authenticated {
		return ErrNotAuthenticated
	}
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
