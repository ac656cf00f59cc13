package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/chordist/chordist-backend/internal/platform/apierr"
	"github.com/chordist/chordist-backend/internal/platform/logger"
	"github.com/chordist/chordist-backend/internal/repos"
	"github.com/chordist/chordist-backend/internal/requestdata"
	"github.com/chordist/chordist-backend/internal/types"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	Register(ctx context.Context, email, password, nickname string) (*types.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	// SetContextFromToken validates the bearer token and loads the caller's
	// identity into request-scoped context.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	tokenRepo  repos.UserTokenRepo
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	tokenRepo repos.UserTokenRepo,
	jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:         db,
		log:        baseLog.With("service", "AuthService"),
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *authService) Register(ctx context.Context, email, password, nickname string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || strings.TrimSpace(nickname) == "" {
		return nil, apierr.BadRequest("missing_fields", fmt.Errorf("email, password and nickname are required"))
	}
	exists, err := s.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apierr.Conflict("email_taken", fmt.Errorf("email %s is already registered", email))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Nickname: strings.TrimSpace(nickname),
	}
	if _, err := s.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		return nil, err
	}
	s.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.Unauthorized("invalid_credentials", fmt.Errorf("no account for %s", email))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.Unauthorized("invalid_credentials", fmt.Errorf("password mismatch"))
	}
	return s.issueTokens(ctx, user.ID)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.tokenRepo.GetByToken(ctx, nil, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil || time.Now().After(stored.ExpiresAt) {
		return nil, apierr.Unauthorized("invalid_refresh_token", fmt.Errorf("refresh token unknown or expired"))
	}
	return s.issueTokens(ctx, stored.UserID)
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.tokenRepo.DeleteByUserID(ctx, nil, userID)
}

func (s *authService) issueTokens(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := uuid.New().String()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tokenRepo.DeleteByUserID(ctx, tx, userID); err != nil {
			return err
		}
		_, err := s.tokenRepo.Create(ctx, tx, []*types.UserToken{{
			ID:        uuid.New(),
			UserID:    userID,
			Token:     refresh,
			ExpiresAt: now.Add(s.refreshTTL),
		}})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Unauthorized("missing_token", fmt.Errorf("no bearer token"))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("token validation failed: %w", err))
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("unexpected claims shape"))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("subject is not a user id: %w", err))
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}
