// Package session persists the dashboard's browser-storage analog: the
// upstream bearer token, the serialized admin profile and the theme
// preference. A durable SQLite store is fronted by a failover wrapper with an
// in-memory fallback.
package session

import (
	"context"
	"encoding/json"
	"fmt"
)

// Keys under which session values are stored.
const (
	KeyToken   = "auth_token"
	KeyProfile = "admin_profile"
	KeyTheme   = "theme"
)

// Repository is a small KV contract. Get returns an empty string without an
// error when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// AdminProfile is the signed-in admin snapshot cached alongside the token.
type AdminProfile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store exposes typed accessors over a Repository.
type Store struct {
	repo Repository
}

func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Token returns the stored bearer token, empty when signed out.
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.repo.Get(ctx, KeyToken)
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.repo.Set(ctx, KeyToken, token)
}

func (s *Store) ClearToken(ctx context.Context) error {
	return s.repo.Delete(ctx, KeyToken)
}

// Profile returns the stored admin profile, or nil when absent.
func (s *Store) Profile(ctx context.Context) (*AdminProfile, error) {
	raw, err := s.repo.Get(ctx, KeyProfile)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var profile AdminProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

func (s *Store) SetProfile(ctx context.Context, profile *AdminProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.repo.Set(ctx, KeyProfile, string(data))
}

// Theme returns the stored theme preference, defaulting to "light".
func (s *Store) Theme(ctx context.Context) (string, error) {
	theme, err := s.repo.Get(ctx, KeyTheme)
	if err != nil {
		return "", err
	}
	if theme == "" {
		return "light", nil
	}
	return theme, nil
}

func (s *Store) SetTheme(ctx context.Context, theme string) error {
	return s.repo.Set(ctx, KeyTheme, theme)
}
