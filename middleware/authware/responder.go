package authware

import (
	"strconv"
	"time"

	auth "github.com/gira-app/go-auth"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

const (
	// MsgAuthenticationRequired is the single body every authentication
	// failure produces. Missing, malformed, forged, and expired tokens are
	// indistinguishable to the client.
	MsgAuthenticationRequired = "Access denied. Authentication required."
	// MsgInsufficientRole is the body for role check failures.
	MsgInsufficientRole = "Access denied. You don't have the required role to perform this action."
	// MsgEmailVerificationRequired is the body for routes gated on a
	// confirmed email address.
	MsgEmailVerificationRequired = "Access denied. Email verification required."
)

// APIError is the uniform failure payload. The error field is kept for
// wire compatibility with older clients and always serializes to null.
type APIError struct {
	Status    int     `json:"status"`
	Error     *string `json:"error"`
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
	Path      string  `json:"path"`
}

// Responder turns auth failures into uniform JSON responses. Diagnostic
// detail goes to the log; the client only ever sees the generic body.
type Responder struct {
	logger auth.Logger
}

func NewResponder(logger auth.Logger) *Responder {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Responder{logger: logger}
}

// Respond writes the failure response for err. It satisfies
// router.ErrorHandler.
func (r *Responder) Respond(ctx router.Context, err error) error {
	status, message := classify(err)

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		r.logger.Debug(
			"auth middleware rejection",
			"error", richErr.Message,
			"text_code", richErr.TextCode,
			"path", ctx.Path(),
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)
	} else {
		r.logger.Debug("auth middleware rejection", "error", err, "path", ctx.Path())
	}

	payload := APIError{
		Status:    status,
		Error:     nil,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      ctx.Path(),
	}

	if jsonErr := ctx.JSON(status, payload); jsonErr != nil {
		r.logger.Error("failed to serialize auth error payload", "error", jsonErr)
		return ctx.Status(status).SendString(`{"status":` + strconv.Itoa(status) + `,"error":null,"message":"` + message + `"}`)
	}

	return nil
}

// classify maps a failure to its response status and body. Anything that is
// not explicitly an authorization failure collapses into the 401 bucket so
// the response never discloses why a token was rejected.
func classify(err error) (int, string) {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return router.StatusUnauthorized, MsgAuthenticationRequired
	}

	switch richErr.TextCode {
	case auth.TextCodeInsufficientRole:
		return router.StatusForbidden, MsgInsufficientRole
	case auth.TextCodeEmailNotVerified:
		return router.StatusForbidden, MsgEmailVerificationRequired
	}

	if richErr.Category == errors.CategoryAuthz {
		return router.StatusForbidden, MsgInsufficientRole
	}

	return router.StatusUnauthorized, MsgAuthenticationRequired
}
