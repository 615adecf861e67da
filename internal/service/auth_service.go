package service

import (
	"errors"

	"breakroom/config"
	"breakroom/internal/auth"
	"breakroom/internal/models"
	"breakroom/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid email or password")
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

func (s *AuthService) Register(email, username, password, role string) (*models.User, string, string, error) {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, "", "", ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, "", "", ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	access, refresh, err := s.issueTokens(u)
	return u, access, refresh, err
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, refresh, err := s.issueTokens(u)
	return u, access, refresh, err
}

func (s *AuthService) Refresh(refreshToken string) (string, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", err
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	return auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
}

func (s *AuthService) issueTokens(u *models.User) (string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return access, "", err
	}
	return access, refresh, nil
}
