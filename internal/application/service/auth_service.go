package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/cactus-admin-api/pkg/apperror"
	"github.com/sangkips/cactus-admin-api/pkg/utils"
)

// AdminSubject is the token subject of the shared admin login.
const AdminSubject = "admin"

// AuthService handles the admin login
type AuthService struct {
	passwordHash string
	jwtManager   *utils.JWTManager
}

// NewAuthService hashes the configured admin password once so the plain text
// is not kept in memory.
func NewAuthService(adminPassword string, jwtManager *utils.JWTManager) (*AuthService, error) {
	if adminPassword == "" {
		return nil, fmt.Errorf("auth: admin password must not be empty")
	}
	hash, err := utils.HashPassword(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("auth: hash admin password: %w", err)
	}
	return &AuthService{passwordHash: hash, jwtManager: jwtManager}, nil
}

// LoginOutput represents the login output
type LoginOutput struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Login checks the admin password and issues an access token
func (s *AuthService) Login(_ context.Context, password string) (*LoginOutput, error) {
	if !utils.CheckPasswordHash(password, s.passwordHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	token, expires, err := s.jwtManager.GenerateAccessToken(AdminSubject, utils.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{AccessToken: token, ExpiresAt: expires}, nil
}
