package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/auth"
	"github.com/creator-marketplace/backend/internal/config"
	"github.com/creator-marketplace/backend/internal/models"
)

type UserService struct {
	users UserStore
	audit AuditStore
	cfg   *config.Config
	log   *zap.Logger
}

func NewUserService(users UserStore, audit AuditStore, cfg *config.Config, log *zap.Logger) *UserService {
	return &UserService{users: users, audit: audit, cfg: cfg, log: log}
}

type RegisterInput struct {
	Email       string
	Password    string
	Role        string
	DisplayName string
	ChannelURL  *string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, "", apperr.Validation("a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, "", apperr.Validation("password must be at least 8 characters")
	}
	if in.Role != models.RoleBrand && in.Role != models.RoleCreator {
		return nil, "", apperr.Validation("role must be %q or %q", models.RoleBrand, models.RoleCreator)
	}
	if in.DisplayName == "" {
		return nil, "", apperr.Validation("display_name is required")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		DisplayName:  in.DisplayName,
		ChannelURL:   in.ChannelURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &user.ID,
		ActorType:   "user",
		Action:      "user_registered",
		EntityType:  "user",
		EntityID:    &user.ID,
		Meta:        map[string]any{"role": user.Role},
	})

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Role, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Same answer for unknown email and bad password.
		return nil, "", apperr.Forbidden("invalid credentials")
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", apperr.Forbidden("invalid credentials")
	}

	_ = s.users.Touch(ctx, user.ID)

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Role, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
