package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-auth-client/token"
)

const grantTypePassword = "password"

// tokenResponse is the RFC 6749 section 5.1 token response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	IDToken     string `json:"id_token,omitempty"`
}

// TokenHandler implements the resource owner password grant. The same signed
// token is returned as both access and ID token.
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeOAuthError(w, "invalid_request", "malformed form body", http.StatusBadRequest)
			return
		}
		if grantType := r.PostForm.Get("grant_type"); grantType != grantTypePassword {
			writeOAuthError(w, "unsupported_grant_type", "only the password grant is supported", http.StatusBadRequest)
			return
		}

		username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
		if username == "" || password == "" {
			writeOAuthError(w, "invalid_request", "username and password are required", http.StatusBadRequest)
			return
		}

		user, err := s.authenticate(username, password)
		if err != nil {
			writeOAuthError(w, "invalid_grant", invalidCredentialsMessage, http.StatusBadRequest)
			return
		}

		signed, err := s.issueToken(user)
		if err != nil {
			s.logger.Error().Err(err).Str("email", user.Email).Msg("failed to issue token")
			writeOAuthError(w, "server_error", "failed to issue token", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, tokenResponse{
			AccessToken: signed,
			TokenType:   "Bearer",
			ExpiresIn:   int64(s.ttl.Seconds()),
			IDToken:     signed,
		})
	}
}

// JWKSHandler publishes the verification keys. HMAC-signed servers have none.
func (s *Server) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyPairSigner, ok := s.signer.(*token.KeyPairSigner)
		if !ok {
			writeJSON(w, http.StatusOK, token.JWKS{Keys: []token.JWK{}})
			return
		}

		jwks, err := keyPairSigner.JWKS()
		if err != nil {
			writeJSONError(w, "Failed to get JWKS", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_ = json.NewEncoder(w).Encode(jwks)
	}
}

func writeOAuthError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
