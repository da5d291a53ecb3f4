package auth

import "os"

// tokenEnvVar is where the API token lives in the environment. Values from
// a .env file land here too via godotenv at config load.
const tokenEnvVar = "CAMPAIGNSCRAPER_API_TOKEN"

// EnvironmentStore reads the API token from the environment. Read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based token store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(token string) error {
	return ErrStoreUnavailable
}

// Retrieve gets the token from the environment
func (e *EnvironmentStore) Retrieve() (string, error) {
	token := os.Getenv(tokenEnvVar)
	if token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete() error {
	return ErrStoreUnavailable
}
