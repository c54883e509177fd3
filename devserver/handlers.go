package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-auth-client/gateway"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/users"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxBodyBytes    = 1 << 16

	invalidCredentialsMessage = "Invalid email or password"
)

// SignInHandler exchanges an email and password for a session token.
func (s *Server) SignInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds gateway.Credentials
		if err := decodeJSONBody(w, r, &creds); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := creds.Validate(); err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}

		user, err := s.authenticate(creds.Email, creds.Password)
		if err != nil {
			writeJSONError(w, invalidCredentialsMessage, http.StatusUnauthorized)
			return
		}

		signed, err := s.issueToken(user)
		if err != nil {
			s.logger.Error().Err(err).Str("email", user.Email).Msg("failed to issue token")
			writeJSONError(w, "Failed to issue token", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, gateway.AuthResponse{Token: signed})
	}
}

// SignUpHandler creates an account with the "user" role and signs it in.
func (s *Server) SignUpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg gateway.Registration
		if err := decodeJSONBody(w, r, &reg); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		// Confirmation and terms are checked by the client and never sent.
		reg.ConfirmPassword = reg.Password
		reg.AcceptTerms = true
		if err := reg.Validate(); err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := users.ValidatePasswordStrength(reg.Password); err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}

		hash, err := users.HashPassword(reg.Password)
		if err != nil {
			writeJSONError(w, "Failed to create account", http.StatusInternalServerError)
			return
		}

		user := &users.User{
			Email:        reg.Email,
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(reg.FirstName),
			LastName:     strings.TrimSpace(reg.LastName),
			Address:      strings.TrimSpace(reg.Address),
			Role:         users.RoleUser,
		}
		if err := s.users.Create(user); err != nil {
			if errors.Is(err, apperrors.ErrUserExists) {
				writeJSONError(w, "An account with this email already exists", http.StatusConflict)
				return
			}
			writeJSONError(w, "Failed to create account", http.StatusInternalServerError)
			return
		}

		signed, err := s.issueToken(user)
		if err != nil {
			s.logger.Error().Err(err).Str("email", user.Email).Msg("failed to issue token")
			writeJSONError(w, "Failed to issue token", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, gateway.AuthResponse{Token: signed})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// authenticate returns the user when password matches. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *Server) authenticate(email, password string) (*users.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Blocked || !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := s.users.SetLastLogin(user.Email); err != nil {
		s.logger.Warn().Err(err).Str("email", user.Email).Msg("failed to record login")
	}
	return user, nil
}

func (s *Server) issueToken(user *users.User) (string, error) {
	claims := token.Claims{
		Subject: user.ID,
		Name:    user.FullName(),
		Email:   user.Email,
		Role:    string(user.Role),
	}
	if s.issuer != "" {
		claims.Extra = map[string]any{"iss": s.issuer}
	}
	return s.creator.Mint(claims)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return decoder.Decode(v)
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes the {"message": ...} body the client shows to users.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{"message": message})
}
