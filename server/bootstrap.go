package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/users"
	"github.com/rs/zerolog/log"
)

const DefaultAdminName = "Administrator"

// InitialiseSystem seeds the admin account if it does not exist yet.
// Returns the generated password on first creation (empty string if the
// admin exists or its password was configured).
func (s *Server) InitialiseSystem(ctx context.Context) (generatedPassword string, err error) {
	email := s.config.GetAdminEmail()
	if email == "" {
		return "", nil
	}

	if existing, err := s.repos.Users.GetByEmail(email); err == nil && existing != nil {
		log.Info().Str("email", email).Msg("Bootstrap: admin already exists")
		return "", nil
	} else if err != nil && !errors.Is(err, errors.ErrUserNotFound) {
		return "", fmt.Errorf("failed to check for existing admin: %w", err)
	}

	password := s.config.GetAdminPassword()
	if password == "" {
		// Generate a secure random password
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		password = base64.URLEncoding.EncodeToString(passwordBytes)
		generatedPassword = password
	}

	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &users.User{
		Record: users.Record{
			Name:     DefaultAdminName,
			Email:    email,
			IsActive: true,
			Role:     users.RoleAdmin,
		},
		PasswordHash: passwordHash,
	}
	if err := s.repos.Users.Create(admin); err != nil {
		return "", fmt.Errorf("failed to create admin: %w", err)
	}

	if generatedPassword != "" {
		log.Info().Msg("Bootstrap complete: admin account created")
		log.Info().Msgf("   Email:    %s", email)
		log.Info().Msgf("   Password: %s", generatedPassword)
		log.Info().Msg("   SAVE THIS PASSWORD - it will not be displayed again!")
	} else {
		log.Info().Str("email", email).Msg("Bootstrap: admin account created with configured password")
	}
	return generatedPassword, nil
}
