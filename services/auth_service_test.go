package services

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/civilink/config"
	"github.com/techagentng/civilink/db"
	apiError "github.com/techagentng/civilink/errors"
	"github.com/techagentng/civilink/models"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		SessionTTL:        time.Hour,
		SignupOTPRequired: true,
		BaseUrl:           "http://civilink.test",
	}
}

func newAuthService(t *testing.T, mailer Mailer) (AuthService, SessionContext) {
	t.Helper()
	conf := testConfig()
	sessions := NewSessionContext(db.NewSessionRepo(db.NewMemoryStore()), conf)
	svc, err := NewAuthService(sessions, mailer, conf, zap.NewNop())
	require.NoError(t, err)
	return svc, sessions
}

func TestLoginDemoAccounts(t *testing.T) {
	svc, sessions := newAuthService(t, new(MockMailer))
	ctx := context.Background()

	resp, apiErr := svc.Login(ctx, &models.LoginRequest{Username: "user1", Password: "password123"})
	require.Nil(t, apiErr)
	assert.Equal(t, "John Doe", resp.Session.Name)
	assert.Equal(t, "1234567890", resp.Session.Mobile)
	assert.NotEmpty(t, resp.AccessToken)

	current, err := sessions.GetSession(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user1", current.Username)

	resp, apiErr = svc.Login(ctx, &models.LoginRequest{Username: "user2", Password: "password123"})
	require.Nil(t, apiErr)
	assert.Equal(t, "Jane Smith", resp.Session.Name)
}

func TestLoginRejected(t *testing.T) {
	svc, _ := newAuthService(t, new(MockMailer))
	ctx := context.Background()

	for _, req := range []models.LoginRequest{
		{Username: "user1", Password: "wrong"},
		{Username: "nobody", Password: "password123"},
		{Username: "USER1", Password: "password123"},
	} {
		req := req
		_, apiErr := svc.Login(ctx, &req)
		require.NotNil(t, apiErr)
		assert.Equal(t, "Invalid username or password.", apiErr.Message)
		assert.Equal(t, 401, apiErr.Status)
	}

	_, apiErr := svc.Login(ctx, &models.LoginRequest{})
	require.NotNil(t, apiErr)
	assert.Equal(t, "Username is required", apiErr.Fields["username"])
	assert.Equal(t, "Password is required", apiErr.Fields["password"])
}

func TestSecondLoginReplacesSession(t *testing.T) {
	svc, sessions := newAuthService(t, new(MockMailer))
	ctx := context.Background()

	first, apiErr := svc.Login(ctx, &models.LoginRequest{Username: "user1", Password: "password123"})
	require.Nil(t, apiErr)
	second, apiErr := svc.Login(ctx, &models.LoginRequest{Username: "user1", Password: "password123"})
	require.Nil(t, apiErr)

	_, err := sessions.GetSession(ctx, first.AccessToken)
	assert.Error(t, err)
	_, err = sessions.GetSession(ctx, second.AccessToken)
	assert.NoError(t, err)
}

func TestLogout(t *testing.T) {
	svc, sessions := newAuthService(t, new(MockMailer))
	ctx := context.Background()

	resp, apiErr := svc.Login(ctx, &models.LoginRequest{Username: "user2", Password: "password123"})
	require.Nil(t, apiErr)
	require.NoError(t, svc.Logout(ctx, resp.AccessToken))

	_, err := sessions.GetSession(ctx, resp.AccessToken)
	assert.Error(t, err)

	assert.True(t, errors.Is(svc.Logout(ctx, "garbage"), apiError.ErrUnauthorized))
}

func TestSignup(t *testing.T) {
	mailer := new(MockMailer)
	svc, _ := newAuthService(t, mailer)
	ctx := context.Background()

	mailer.On("SendWelcome", mock.Anything, "ada@example.com", "Ada Lovelace").Return(errors.New("mailgun down"))

	resp, apiErr := svc.Signup(ctx, &models.SignupRequest{
		Name:     " Ada Lovelace ",
		Email:    "ada@example.com",
		Mobile:   "555-123-4567",
		Password: "Abcd123!",
		OTP:      "123456",
	})
	require.Nil(t, apiErr)
	mailer.AssertExpectations(t)
	assert.Equal(t, "ada@example.com", resp.Session.Username)
	assert.Equal(t, "Ada Lovelace", resp.Session.Name)
	assert.Equal(t, "5551234567", resp.Session.Mobile)
	assert.Equal(t, "ada@example.com", resp.Session.Email)

	_, apiErr = svc.Login(ctx, &models.LoginRequest{Username: "ada@example.com", Password: "Abcd123!"})
	assert.Equal(t, apiError.ErrInvalidCredentials, apiErr)
}

func TestSignupKeepsDemoSessionAlive(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("SendWelcome", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, sessions := newAuthService(t, mailer)
	ctx := context.Background()

	demo, apiErr := svc.Login(ctx, &models.LoginRequest{Username: "user1", Password: "password123"})
	require.Nil(t, apiErr)

	signup, apiErr := svc.Signup(ctx, &models.SignupRequest{
		Name:     "Mallory",
		Email:    "user1@evil.example",
		Mobile:   "5551234567",
		Password: "Abcd123!",
		OTP:      "123456",
	})
	require.Nil(t, apiErr)
	assert.NotEqual(t, "user1", signup.Session.Username)

	current, err := sessions.GetSession(ctx, demo.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user1", current.Username)

	bobA, apiErr := svc.Signup(ctx, &models.SignupRequest{Name: "Bob", Email: "bob@a.com", Mobile: "5551234567", Password: "Abcd123!", OTP: "123456"})
	require.Nil(t, apiErr)
	bobB, apiErr := svc.Signup(ctx, &models.SignupRequest{Name: "Bob", Email: "bob@b.com", Mobile: "5551234567", Password: "Abcd123!", OTP: "123456"})
	require.Nil(t, apiErr)
	assert.NotEqual(t, bobA.Session.Username, bobB.Session.Username)

	_, err = sessions.GetSession(ctx, bobA.AccessToken)
	assert.NoError(t, err)
}

func TestSignupRejections(t *testing.T) {
	svc, _ := newAuthService(t, new(MockMailer))
	ctx := context.Background()

	_, apiErr := svc.Signup(ctx, &models.SignupRequest{Email: "bad", Mobile: "123", Password: "abcdefgh"})
	require.NotNil(t, apiErr)
	assert.Equal(t, map[string]string{
		"name":     "Name is required",
		"email":    "Please enter a valid email address",
		"mobile":   "Please enter a valid 10-digit mobile number",
		"password": "Password does not meet requirements",
	}, apiErr.Fields)

	_, apiErr = svc.Signup(ctx, &models.SignupRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Mobile:   "5551234567",
		Password: "Abcd123!",
		OTP:      "000000",
	})
	assert.Equal(t, apiError.ErrInvalidOTP, apiErr)
}

func TestSendOTP(t *testing.T) {
	svc, _ := newAuthService(t, new(MockMailer))

	assert.Nil(t, svc.SendOTP(context.Background(), &models.OTPRequest{Mobile: "1234567890"}))

	apiErr := svc.SendOTP(context.Background(), &models.OTPRequest{Mobile: "12345"})
	require.NotNil(t, apiErr)
	assert.Equal(t, "Please enter a valid 10-digit mobile number", apiErr.Fields["mobile"])
}

func TestPasswordStrength(t *testing.T) {
	svc, _ := newAuthService(t, new(MockMailer))
	assert.Equal(t, "Strong", svc.PasswordStrength("Abcd123!").Label)
}
