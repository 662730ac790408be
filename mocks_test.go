package auth_test

import (
	"context"

	auth "github.com/gira-app/go-auth"
	"github.com/stretchr/testify/mock"
)

// MockIdentity implements auth.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) DisplayName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) IsActive() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockIdentity) IsEmailVerified() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// MockIdentityProvider implements auth.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.Identity), args.Error(1)
}

// MockUserFinder implements auth.UserFinder for testing
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) GetByIdentifier(ctx context.Context, identifier string) (*auth.UserRecord, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.UserRecord), args.Error(1)
}

func (m *MockUserFinder) GetByEmail(ctx context.Context, email string) (*auth.UserRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.UserRecord), args.Error(1)
}

// MockUserMutator implements auth.UserMutator for testing
type MockUserMutator struct {
	mock.Mock
}

func (m *MockUserMutator) MarkEmailVerified(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserMutator) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

// MockAccountRegistrerer implements auth.AccountRegistrerer for testing
type MockAccountRegistrerer struct {
	mock.Mock
}

func (m *MockAccountRegistrerer) RegisterUser(ctx context.Context, user *auth.UserRecord) (*auth.UserRecord, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.UserRecord), args.Error(1)
}

// recordingMailer captures outbound messages instead of sending them
type recordingMailer struct {
	verificationEmails map[string]string
	resetEmails        map[string]string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{
		verificationEmails: map[string]string{},
		resetEmails:        map[string]string{},
	}
}

func (m *recordingMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	m.verificationEmails[email] = token
	return nil
}

func (m *recordingMailer) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	m.resetEmails[email] = token
	return nil
}
