package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorsworld/tutors-world-api/internal/models"
	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
)

// AuthService authenticates accounts and issues access tokens.
type AuthService struct {
	accounts   AccountStore
	logger     *zap.Logger
	secret     []byte
	issuer     string
	expiration time.Duration
}

// NewAuthService constructs an AuthService.
func NewAuthService(accounts AccountStore, logger *zap.Logger, secret, issuer string, expiration time.Duration) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   accounts,
		logger:     logger,
		secret:     []byte(secret),
		issuer:     issuer,
		expiration: expiration,
	}
}

// Login verifies credentials and returns a signed access token whose
// claims carry the role and the role-entity identifier.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	account, err := s.accounts.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Username not found")
		}
		return nil, mapStoreError(err, "")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Incorrect password")
	}

	token, issuedAt, err := s.generateAccessToken(account)
	if err != nil {
		s.logger.Error("sign access token", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.expiration.Seconds()),
		IssuedAt:    issuedAt,
		User:        account,
	}, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) generateAccessToken(account *models.Account) (string, time.Time, error) {
	now := time.Now().UTC()
	claims := models.JWTClaims{
		Username:   account.Username,
		Role:       account.Role(),
		TutorID:    account.TutorID,
		StudentID:  account.StudentID,
		GuardianID: account.GuardianID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   account.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	return signed, now, err
}

// hashPassword derives a bcrypt hash from the raw password. Plaintext
// never reaches the store.
func hashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
