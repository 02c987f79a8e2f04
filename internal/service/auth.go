package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/logger"
	"arrienda-backend/internal/repository"
	"arrienda-backend/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, name, email, phone, password string) (*domain.User, *TokenPair, error) {
	logger.EnterMethod("authService.Register", "email", email)

	v := domain.NewValidationError()
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		v.Add("email", "a valid email is required")
	}
	if strings.TrimSpace(name) == "" {
		v.Add("name", "name is required")
	}
	if len(password) < 8 {
		v.Add("password", "password must be at least 8 characters")
	}
	if v.HasErrors() {
		return nil, nil, v
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		Phone:        phone,
		PasswordHash: string(hash),
		Roles:        []domain.Role{domain.RoleTenant},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.Register", err, "email", email)
		return nil, nil, err
	}

	pair, err := s.generateTokens(user)
	if err != nil {
		return nil, nil, err
	}
	logger.ExitMethod("authService.Register", "userID", user.ID)
	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.generateTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if claims.Type != security.TokenTypeRefresh {
		return nil, domain.ErrUnauthenticated
	}

	// Roles are reloaded so a refreshed token reflects grants made since the
	// refresh token was minted.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.generateTokens(user)
}

func (s *authService) BecomeLandlord(ctx context.Context, principal domain.Principal) (*domain.User, error) {
	if err := s.userRepo.AddRole(ctx, principal.UserID, domain.RoleLandlord); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, principal.UserID)
}

func (s *authService) GetProfile(ctx context.Context, principal domain.Principal) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, principal.UserID)
}

func (s *authService) generateTokens(user *domain.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
