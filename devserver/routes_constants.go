package devserver

// Route path constants
const (
	RouteSignIn = "/auth/signin"
	RouteSignUp = "/auth/signup"

	// OAuth2 / OIDC Routes
	RouteOAuth2Token   = "/oauth2/token"
	RouteWellKnownJWKS = "/.well-known/jwks.json"

	RouteHealth = "/health"
)
