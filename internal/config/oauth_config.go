package config

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

func (OAuth) GetGoogleClientSecret() string {
	return GetEnv("GOOGLE_CLIENT_SECRET", "")
}

func (OAuth) GetGoogleCallbackURL() string {
	return GetEnv("GOOGLE_CALLBACK_URL", "http://localhost:8080/auth/google/callback")
}

// GetFrontendURL is the allow-listed redirect origin and the token
// audience.
func (OAuth) GetFrontendURL() string {
	return GetEnv("FRONTEND_URL", "http://localhost:3000")
}

// GetBackendURL is the token issuer.
func (OAuth) GetBackendURL() string {
	return GetEnv("BACKEND_URL", "http://localhost:8080")
}
