package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserProvider verifies credentials against a user store and maps records
// to identities
type UserProvider struct {
	store     UserFinder
	Validator func(*UserRecord) error
	logger    Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserFinder) *UserProvider {
	return &UserProvider{
		store:     store,
		logger:    defLogger{},
		Validator: defaultValidator,
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

func (u *UserProvider) validate(user *UserRecord) error {
	if u.Validator != nil {
		return u.Validator(user)
	}
	return defaultValidator(user)
}

// VerifyIdentity will find the user, compare to the password, and return
// identity. Lookup misses and password mismatches collapse into the same
// error so callers cannot probe which emails are registered.
func (u UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			// burn a comparison anyway so a miss costs the same as a mismatch
			ComparePasswordAndHash(password, RandomPasswordHash())
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if !user.Active {
		return nil, ErrAccountDisabled
	}

	if err := u.validate(user); err != nil {
		return nil, err
	}

	return NewPrincipalFromUser(user), nil
}

// FindIdentityByIdentifier resolves an identity without checking
// credentials. Used by the refresh flow, which already proved possession of
// a signed token.
func (u UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if !user.Active {
		return nil, ErrAccountDisabled
	}

	if err := u.validate(user); err != nil {
		return nil, err
	}

	return NewPrincipalFromUser(user), nil
}

func defaultValidator(u *UserRecord) error {
	if IsValidRole(u.Role) {
		return nil
	}
	return errors.New("user has an unknown or invalid role", errors.CategoryAuth).
		WithTextCode("INVALID_ROLE").
		WithMetadata(map[string]any{"role": u.Role, "user_id": u.ID.String()})
}
