package auth

import (
	"context"

	"github.com/pmehta/splitbook/internal/models"
)

// Authenticator is the interface for authentication implementations,
// allowing the service layer to stay independent of the credential scheme
// (password, OAuth, passkeys, ...).
type Authenticator interface {
	// Register creates a new user account. The credential format depends
	// on the implementation (a password here).
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies credentials and returns the user on success.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential against the
	// implementation's requirements (length, format, ...).
	ValidateCredential(credential string) error
}
