package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/users"
	"github.com/rs/zerolog/log"
)

type authenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	User         *users.Record `json:"user,omitempty"`
	Token        string        `json:"token"`
	TokenType    string        `json:"token_type"`
	ExpiresAt    int64         `json:"expires_at"` // epoch milliseconds
	RefreshToken string        `json:"refresh_token,omitempty"`
}

type createUserRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	IsActive *bool          `json:"is_active"`
	Role     users.RoleType `json:"role"`
}

// AuthenticateHandler exchanges email and password for an access token.
// Unknown, inactive and wrong-password accounts get the same 401.
func (s *Server) AuthenticateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in authenticateRequest
		if err := decodeJSON(r, &in); err != nil || in.Email == "" || in.Password == "" {
			writeDetail(w, http.StatusUnprocessableEntity, "email and password are required")
			return
		}

		user, err := s.repos.Users.GetByEmail(in.Email)
		if err != nil || !user.IsActive || !user.CheckPassword(in.Password) {
			writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}

		resp, err := s.issueTokens(&user.Record)
		if err != nil {
			log.Err(err).Int64("user_id", user.ID).Msg("failed to issue tokens")
			writeDetail(w, http.StatusInternalServerError, "Could not issue token")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) issueTokens(user *users.Record) (*tokenResponse, error) {
	token, expiresAt, err := s.issuer.CreateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.refresh.Create(user.ID)
	if err != nil {
		return nil, err
	}
	return &tokenResponse{
		User:         user,
		Token:        token,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in createUserRequest
		if err := decodeJSON(r, &in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		in.Email = strings.TrimSpace(in.Email)
		if in.Name == "" || !strings.Contains(in.Email, "@") {
			writeDetail(w, http.StatusUnprocessableEntity, "name and a valid email are required")
			return
		}
		if in.Role == "" {
			in.Role = users.RoleUser
		}
		if !in.Role.Valid() {
			writeDetail(w, http.StatusUnprocessableEntity, "role must be one of admin, tenant, user")
			return
		}
		if err := users.ValidatePasswordStrength(in.Password); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		hash, err := users.HashPassword(in.Password)
		if err != nil {
			log.Err(err).Msg("failed to hash password")
			writeDetail(w, http.StatusInternalServerError, "Could not create user")
			return
		}
		user := &users.User{
			Record: users.Record{
				Name:     in.Name,
				Email:    in.Email,
				IsActive: in.IsActive == nil || *in.IsActive,
				Role:     in.Role,
			},
			PasswordHash: hash,
		}
		if err := s.repos.Users.Create(user); err != nil {
			if errors.Is(err, errors.ErrUserExists) {
				writeDetail(w, http.StatusBadRequest, "User with this email already exists")
				return
			}
			log.Err(err).Msg("failed to create user")
			writeDetail(w, http.StatusInternalServerError, "Could not create user")
			return
		}
		writeJSON(w, http.StatusCreated, &user.Record)
	}
}

func userID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// GetUserHandler returns a user to an admin or to the user themselves
func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userID(r)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid user id")
			return
		}
		if claims := claimsFrom(r.Context()); claims == nil || (claims.Role != users.RoleAdmin && claims.UserID != id) {
			writeDetail(w, http.StatusForbidden, "Not enough permissions")
			return
		}

		user, err := s.repos.Users.GetByID(id)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "User not found")
			return
		}
		writeJSON(w, http.StatusOK, &user.Record)
	}
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit, ok := pageParams(r)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid skip or limit")
			return
		}
		list, err := s.repos.Users.List(skip, limit)
		if err != nil {
			log.Err(err).Msg("failed to list users")
			writeDetail(w, http.StatusInternalServerError, "Could not list users")
			return
		}
		writeJSON(w, http.StatusOK, records(list))
	}
}

func (s *Server) ListUsersByRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := users.ParseRole(chi.URLParam(r, "role"))
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		skip, limit, ok := pageParams(r)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid skip or limit")
			return
		}
		list, err := s.repos.Users.ListByRole(role, skip, limit)
		if err != nil {
			log.Err(err).Msg("failed to list users by role")
			writeDetail(w, http.StatusInternalServerError, "Could not list users")
			return
		}
		writeJSON(w, http.StatusOK, records(list))
	}
}

func (s *Server) UpdateUserRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userID(r)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid user id")
			return
		}
		role, err := users.ParseRole(r.URL.Query().Get("role"))
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		existing, err := s.repos.Users.GetByID(id)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "User not found")
			return
		}
		updated := *existing
		updated.Role = role
		if err := s.repos.Users.Update(&updated); err != nil {
			log.Err(err).Int64("user_id", id).Msg("failed to update role")
			writeDetail(w, http.StatusInternalServerError, "Could not update user")
			return
		}
		writeJSON(w, http.StatusOK, &updated.Record)
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userID(r)
		if !ok {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid user id")
			return
		}
		if err := s.repos.Users.Delete(id); err != nil {
			writeDetail(w, http.StatusNotFound, "User not found")
			return
		}
		s.refresh.Revoke(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func records(list []*users.User) []users.Record {
	out := make([]users.Record, 0, len(list))
	for _, u := range list {
		out = append(out, u.Record)
	}
	return out
}
