package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/assettrack/internal/auth"
	"github.com/wolfeidau/assettrack/internal/store"
	"github.com/wolfeidau/assettrack/internal/telemetry"
)

// emailPattern is a basic local@domain.tld shape check, applied before any
// storage lookup.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// invalidCredentialsMessage is deliberately generic: the response is
// identical whether the email is unknown or the password is wrong, so a
// caller cannot probe which accounts exist.
const invalidCredentialsMessage = "invalid email or password"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	Email string    `json:"email"`
	OrgID uuid.UUID `json:"orgId"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

// handleLogin validates credentials and issues a bearer token. The password
// digest is never returned.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, invalidInput("invalid request body"))
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, invalidInput("email and password are required"))
		return
	}

	if !emailPattern.MatchString(req.Email) {
		writeError(w, invalidInput("invalid email address"))
		return
	}

	ctx := r.Context()

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.rejectLogin(ctx, w)
			return
		}
		writeError(w, err)
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordDigest) {
		s.rejectLogin(ctx, w)
		return
	}

	token, err := s.tokens.Issue(user.UserID, user.OrgID)
	if err != nil {
		writeError(w, err)
		return
	}

	telemetry.GetMetrics().LoginSuccessTotal.Add(ctx, 1)

	log.Info().
		Str("user_id", user.UserID.String()).
		Str("org_id", user.OrgID.String()).
		Msg("User logged in")

	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  loginUser{Email: user.Email, OrgID: user.OrgID},
	})
}

// rejectLogin writes the generic credentials failure. Both the
// unknown-email and wrong-password paths go through here so the response
// bodies are byte-identical.
func (s *Server) rejectLogin(ctx context.Context, w http.ResponseWriter) {
	telemetry.GetMetrics().LoginFailureTotal.Add(ctx, 1)
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: invalidCredentialsMessage})
}
