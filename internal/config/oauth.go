package config

type OAuthConfig struct {
	Google   *GoogleOAuthConfig   `yaml:"google"`
	Apple    *AppleOAuthConfig    `yaml:"apple"`
	Firebase *FirebaseAuthConfig  `yaml:"firebase"`
}

type GoogleOAuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// AppleOAuthConfig holds the audience for Sign in with Apple ID-token
// verification. Server-to-server Apple calls would need the developer
// key material as well; token verification only needs the client ID.
type AppleOAuthConfig struct {
	ClientID string `yaml:"client_id"`
}

type FirebaseAuthConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CredentialsFile string `yaml:"credentials_file"`
}

func loadOAuthConfig() *OAuthConfig {
	return &OAuthConfig{
		Google: &GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		},
		Apple: &AppleOAuthConfig{
			ClientID: getEnv("APPLE_CLIENT_ID", ""),
		},
		Firebase: &FirebaseAuthConfig{
			Enabled:         getEnvAsBool("FIREBASE_AUTH_ENABLED", false),
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		},
	}
}
