package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jrsteele09/go-auth-client/gateway"
	"github.com/stretchr/testify/require"
)

type stubSignUp struct {
	calls int
}

func (s *stubSignUp) Login(context.Context, gateway.Credentials) (string, error) {
	return "", nil
}

func (s *stubSignUp) SignUp(context.Context, gateway.Registration) (string, error) {
	s.calls++
	return "signup-token", nil
}

func TestOAuth2Client(t *testing.T) {
	t.Run("Password grant prefers the id_token", func(t *testing.T) {
		forms := make(chan url.Values, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			forms <- r.PostForm
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"access","token_type":"Bearer","id_token":"id.token.value","expires_in":3600}`))
		}))
		defer server.Close()

		client, err := gateway.NewOAuth2Client(server.URL+"/oauth2/token", "cli", &stubSignUp{})
		require.NoError(t, err)

		token, err := client.Login(context.Background(), gateway.Credentials{Email: "a@x.com", Password: "pw"})
		require.NoError(t, err)
		require.Equal(t, "id.token.value", token)

		form := <-forms
		require.Equal(t, []string{"password"}, form["grant_type"])
		require.Equal(t, []string{"a@x.com"}, form["username"])
		require.Equal(t, []string{"cli"}, form["client_id"])
	})

	t.Run("Falls back to the access token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"access","token_type":"Bearer"}`))
		}))
		defer server.Close()

		client, err := gateway.NewOAuth2Client(server.URL, "cli", &stubSignUp{})
		require.NoError(t, err)

		token, err := client.Login(context.Background(), gateway.Credentials{Email: "a@x.com", Password: "pw"})
		require.NoError(t, err)
		require.Equal(t, "access", token)
	})

	t.Run("Grant errors become AuthError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"bad credentials"}`))
		}))
		defer server.Close()

		client, err := gateway.NewOAuth2Client(server.URL, "cli", &stubSignUp{})
		require.NoError(t, err)

		_, err = client.Login(context.Background(), gateway.Credentials{Email: "a@x.com", Password: "bad"})
		var authErr *gateway.AuthError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, http.StatusBadRequest, authErr.StatusCode)
		require.Equal(t, "bad credentials", authErr.ServerMessage)
	})

	t.Run("SignUp is delegated", func(t *testing.T) {
		signUp := &stubSignUp{}
		client, err := gateway.NewOAuth2Client("http://localhost/token", "cli", signUp)
		require.NoError(t, err)

		token, err := client.SignUp(context.Background(), gateway.Registration{})
		require.NoError(t, err)
		require.Equal(t, "signup-token", token)
		require.Equal(t, 1, signUp.calls)
	})
}
