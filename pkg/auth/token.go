package auth

import "errors"

var (
	// ErrTokenNotFound means no API token is stored in this backend.
	ErrTokenNotFound = errors.New("API token not found")

	// ErrStoreUnavailable means this backend cannot store tokens.
	ErrStoreUnavailable = errors.New("token store unavailable")
)

// TokenStore is the interface for storing and retrieving the ingestion API
// bearer token.
type TokenStore interface {
	// Store saves the token
	Store(token string) error

	// Retrieve gets the stored token
	Retrieve() (string, error)

	// Delete removes the stored token
	Delete() error
}

// Resolver resolves the API token from a list of stores in priority order.
type Resolver struct {
	stores []TokenStore
}

// NewResolver creates a resolver preferring the environment, falling back
// to the system keychain when available.
func NewResolver() *Resolver {
	stores := []TokenStore{NewEnvironmentStore()}

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	return &Resolver{stores: stores}
}

// NewResolverWithStores creates a resolver over explicit stores, mainly
// for tests.
func NewResolverWithStores(stores ...TokenStore) *Resolver {
	return &Resolver{stores: stores}
}

// Resolve returns the first token found, or ErrTokenNotFound.
func (r *Resolver) Resolve() (string, error) {
	for _, store := range r.stores {
		token, err := store.Retrieve()
		if err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrTokenNotFound
}

// Store saves the token in the first store that accepts it.
func (r *Resolver) Store(token string) error {
	var lastErr error
	for _, store := range r.stores {
		if err := store.Store(token); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = ErrStoreUnavailable
	}
	return lastErr
}
