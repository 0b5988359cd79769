package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshHandler rotates a refresh token and issues a new access token
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in refreshRequest
		if err := decodeJSON(r, &in); err != nil || in.RefreshToken == "" {
			writeDetail(w, http.StatusUnprocessableEntity, "refresh_token is required")
			return
		}

		userID, next, err := s.refresh.Rotate(in.RefreshToken)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		user, err := s.repos.Users.GetByID(userID)
		if err != nil || !user.IsActive {
			s.refresh.Revoke(userID)
			writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}

		token, expiresAt, err := s.issuer.CreateAccessToken(&user.Record)
		if err != nil {
			log.Err(err).Int64("user_id", userID).Msg("failed to issue access token")
			writeDetail(w, http.StatusInternalServerError, "Could not issue token")
			return
		}
		writeJSON(w, http.StatusOK, &tokenResponse{
			Token:        token,
			TokenType:    "bearer",
			ExpiresAt:    expiresAt,
			RefreshToken: next,
		})
	}
}
