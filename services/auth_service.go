package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmarzh/scrim-scoreboard/models"
	"github.com/kmarzh/scrim-scoreboard/syncstore"
	"github.com/kmarzh/scrim-scoreboard/utils"
)

const minPasswordLength = 8

type CreateManagerInput struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// AuthService authenticates staff by login/password and teams by access
// code. Token minting lives in the HTTP layer; the service only verifies
// identities against the synchronized collections.
type AuthService interface {
	StaffLogin(ctx context.Context, login, password string) (*models.Manager, error)
	TeamLogin(ctx context.Context, accessCode string) (*models.Team, error)
	CreateManager(ctx context.Context, input CreateManagerInput) (*models.Manager, error)
	ListManagers(ctx context.Context) []models.Manager
	EnsureAdmin(ctx context.Context, login, password string) error
}

type authService struct {
	collections *syncstore.Collections
	logger      *slog.Logger
}

func NewAuthService(collections *syncstore.Collections, logger *slog.Logger) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{collections: collections, logger: logger}
}

func (s *authService) StaffLogin(ctx context.Context, login, password string) (*models.Manager, error) {
	for _, m := range s.collections.Managers.Read(ctx) {
		if strings.EqualFold(m.Login, login) {
			if !utils.CheckPasswordHash(password, m.PasswordHash) {
				return nil, ErrInvalidCredentials
			}
			copied := m
			return &copied, nil
		}
	}
	return nil, ErrInvalidCredentials
}

func (s *authService) TeamLogin(ctx context.Context, accessCode string) (*models.Team, error) {
	code := strings.ToUpper(strings.TrimSpace(accessCode))
	for _, t := range s.collections.Teams.Read(ctx) {
		if t.AccessCode == code {
			copied := t
			return &copied, nil
		}
	}
	return nil, ErrInvalidCredentials
}

func (s *authService) CreateManager(ctx context.Context, input CreateManagerInput) (*models.Manager, error) {
	login := strings.TrimSpace(input.Login)
	if login == "" {
		return nil, ErrLoginRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	for _, m := range s.collections.Managers.Read(ctx) {
		if strings.EqualFold(m.Login, login) {
			return nil, ErrLoginConflict
		}
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash manager password: %w", err)
	}

	manager := models.Manager{
		ID:           uuid.NewString(),
		Login:        login,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		PasswordHash: hash,
		Role:         models.RoleManager,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.collections.Managers.Write(ctx, func(ms []models.Manager) []models.Manager {
		return append(ms, manager)
	})
	if err != nil {
		return nil, fmt.Errorf("create manager: %w", err)
	}
	return &manager, nil
}

func (s *authService) ListManagers(ctx context.Context) []models.Manager {
	return s.collections.Managers.Read(ctx)
}

// EnsureAdmin seeds the bootstrap admin account on first start. An existing
// admin with the same login is left untouched.
func (s *authService) EnsureAdmin(ctx context.Context, login, password string) error {
	for _, m := range s.collections.Managers.Read(ctx) {
		if strings.EqualFold(m.Login, login) {
			return nil
		}
	}

	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.Manager{
		ID:           uuid.NewString(),
		Login:        login,
		DisplayName:  "Administrator",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.collections.Managers.Write(ctx, func(ms []models.Manager) []models.Manager {
		return append(ms, admin)
	}); err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}
	s.logger.Info("seeded bootstrap admin", slog.String("login", login))
	return nil
}
