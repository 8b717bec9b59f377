package dto

import (
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/service"
)

type CreateUserRequest struct {
	Username  string  `json:"username" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	Role      *string `json:"role,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

func (r CreateUserRequest) ToInput() service.UserInput {
	return service.UserInput{
		Username:  &r.Username,
		Email:     &r.Email,
		Role:      r.Role,
		Bio:       r.Bio,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Role      *string `json:"role,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

func (r UpdateUserRequest) ToInput() service.UserInput {
	return service.UserInput{
		Username:  r.Username,
		Email:     r.Email,
		Role:      r.Role,
		Bio:       r.Bio,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Bio       string `json:"bio"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func FromUser(u models.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Bio:       u.Bio,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
