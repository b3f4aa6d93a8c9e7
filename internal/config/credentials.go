package config

import (
	"errors"
	"os"
)

// Environment variables read by LoadCredentials.
const (
	// TokenEnvVar names the variable holding the model gateway token.
	// The token stays out of the config file and must never be logged.
	TokenEnvVar = "AIPROXY_TOKEN"

	// EmailEnvVar names the variable holding the user email substituted
	// into generated task data.
	EmailEnvVar = "USER_EMAIL"
)

// DefaultEmail is used when EmailEnvVar is not set.
const DefaultEmail = "default@example.com"

// Credentials holds the secrets and identity agentd reads from the
// environment at startup.
type Credentials struct {
	Token string
	Email string
}

// LoadCredentials reads Credentials from the environment. The gateway
// token is required; an unset TokenEnvVar is an error.
func LoadCredentials() (*Credentials, error) {
	token := os.Getenv(TokenEnvVar)
	if token == "" {
		return nil, errors.New("AIPROXY_TOKEN environment variable is not set")
	}
	email := os.Getenv(EmailEnvVar)
	if email == "" {
		email = DefaultEmail
	}
	return &Credentials{Token: token, Email: email}, nil
}
