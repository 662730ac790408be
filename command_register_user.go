package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

type RegisterUserMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Password  string `json:"password"`
	UseHashid bool
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate applies the registration input rules. Role is optional; a blank
// one becomes the default role downstream.
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&e.Role, validation.By(optionalRole)),
	)
}

func optionalRole(value any) error {
	role, _ := value.(string)
	if role == "" {
		return nil
	}
	if _, ok := ParseRole(role); !ok {
		return goerrors.New("unknown role", goerrors.CategoryValidation)
	}
	return nil
}

// RegisterUserHandler creates accounts through the external store and kicks
// off email verification when an authenticator is attached.
type RegisterUserHandler struct {
	registry AccountRegistrerer
	auther   *Auther
}

func NewRegisterUserHandler(registry AccountRegistrerer) *RegisterUserHandler {
	return &RegisterUserHandler{registry: registry}
}

// WithAuthenticator enables the post-registration verification email.
func (h *RegisterUserHandler) WithAuthenticator(auther *Auther) *RegisterUserHandler {
	h.auther = auther
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration input")
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	role := DefaultRole
	if parsed, ok := ParseRole(event.Role); ok {
		role = parsed
	}

	user := &UserRecord{
		ID:           uuid.New(),
		Email:        event.Email,
		FirstName:    event.FirstName,
		LastName:     event.LastName,
		Role:         role,
		PasswordHash: hash,
		Active:       true,
	}

	if event.UseHashid {
		if id, err := hashid.NewUUID(event.Email); err == nil {
			user.ID = id
		}
	}

	if user, err = h.registry.RegisterUser(ctx, user); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
	}

	if h.auther != nil {
		if err := h.auther.RequestEmailVerification(ctx, user.Email); err != nil {
			// registration already committed, surface but do not roll back
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send verification email")
		}
	}

	return nil
}
