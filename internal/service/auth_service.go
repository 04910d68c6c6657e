package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"khatapos/internal/config"
	"khatapos/internal/dto"
)

var ErrInvalidPIN = errors.New("invalid PIN")

// AuthService authenticates the single shop owner by PIN and issues JWTs.
// There is no user table: the bcrypt hash of the PIN lives in configuration
// and the token carries a fixed subject.
type AuthService interface {
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg}
}

func (s *authService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.cfg.OwnerPINHash == "" {
		return nil, errors.New("owner PIN not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.OwnerPINHash), []byte(req.PIN)); err != nil {
		return nil, ErrInvalidPIN
	}

	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "owner",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl.Seconds()),
	}, nil
}
