package authware_test

import (
	"errors"
	"testing"
	"time"

	auth "github.com/gira-app/go-auth"
	"github.com/gira-app/go-auth/middleware/authware"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// respondingContext captures the JSON payload the responder writes.
type respondingContext struct {
	*router.MockContext
	path      string
	status    int
	payload   any
	jsonErr   error
	sendBody  string
	sentPlain bool
}

func newRespondingContext(path string) *respondingContext {
	return &respondingContext{
		MockContext: router.NewMockContext(),
		path:        path,
	}
}

func (c *respondingContext) Path() string {
	return c.path
}

func (c *respondingContext) JSON(code int, val any) error {
	if c.jsonErr != nil {
		return c.jsonErr
	}
	c.status = code
	c.payload = val
	return nil
}

func (c *respondingContext) Status(code int) router.Context {
	c.status = code
	return c
}

func (c *respondingContext) SendString(body string) error {
	c.sentPlain = true
	c.sendBody = body
	return nil
}

func respond(t *testing.T, err error) (*respondingContext, authware.APIError) {
	t.Helper()

	ctx := newRespondingContext("/api/reclamations")
	require.NoError(t, authware.NewResponder(nil).Respond(ctx, err))

	payload, ok := ctx.payload.(authware.APIError)
	require.True(t, ok)
	return ctx, payload
}

func TestResponderAuthenticationFailures(t *testing.T) {
	failures := []error{
		auth.ErrMissingCredentials,
		auth.ErrTokenExpired,
		auth.ErrBadSignature,
		auth.ErrTokenMalformed,
		auth.ErrWrongTokenType,
		auth.ErrAccountDisabled,
		errors.New("opaque failure"),
	}

	for _, failure := range failures {
		ctx, payload := respond(t, failure)

		assert.Equal(t, router.StatusUnauthorized, ctx.status)
		assert.Equal(t, router.StatusUnauthorized, payload.Status)
		assert.Equal(t, "Access denied. Authentication required.", payload.Message)
		assert.Nil(t, payload.Error)
		assert.Equal(t, "/api/reclamations", payload.Path)
	}
}

func TestResponderRoleFailure(t *testing.T) {
	ctx, payload := respond(t, auth.ErrInsufficientRole)

	assert.Equal(t, router.StatusForbidden, ctx.status)
	assert.Equal(t, "Access denied. You don't have the required role to perform this action.", payload.Message)
	assert.Nil(t, payload.Error)
}

func TestResponderEmailVerificationFailure(t *testing.T) {
	ctx, payload := respond(t, auth.ErrEmailNotVerified)

	assert.Equal(t, router.StatusForbidden, ctx.status)
	assert.Equal(t, "Access denied. Email verification required.", payload.Message)
}

func TestResponderTimestampIsUTC(t *testing.T) {
	_, payload := respond(t, auth.ErrTokenExpired)

	ts, err := time.Parse(time.RFC3339, payload.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, 5*time.Second)
}

func TestResponderMetadataNeverLeaksToClient(t *testing.T) {
	err := auth.ErrInsufficientRole.Clone().WithMetadata(map[string]any{
		"role":     auth.RolePassenger,
		"required": "ADMIN",
	})

	_, payload := respond(t, err)

	assert.Equal(t, "Access denied. You don't have the required role to perform this action.", payload.Message)
	assert.Nil(t, payload.Error)
}

func TestResponderSerializationFallback(t *testing.T) {
	ctx := newRespondingContext("/api/reclamations")
	ctx.jsonErr = errors.New("encoder blew up")

	err := authware.NewResponder(nil).Respond(ctx, auth.ErrTokenExpired)

	require.NoError(t, err)
	assert.True(t, ctx.sentPlain)
	assert.Equal(t, router.StatusUnauthorized, ctx.status)
	assert.Contains(t, ctx.sendBody, `"status":401`)
	assert.Contains(t, ctx.sendBody, "Access denied. Authentication required.")
	assert.Contains(t, ctx.sendBody, `"error":null`)
}
