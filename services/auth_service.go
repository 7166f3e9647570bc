package services

import (
	"context"

	"github.com/techagentng/civilink/config"
	apiError "github.com/techagentng/civilink/errors"
	"github.com/techagentng/civilink/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService checks demo credentials and opens sessions. There is no account
// store: a signup opens a session but cannot be used to log in later.
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *apiError.Error)
	Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, *apiError.Error)
	SendOTP(ctx context.Context, req *models.OTPRequest) *apiError.Error
	PasswordStrength(password string) models.PasswordStrength
	Logout(ctx context.Context, token string) error
}

type demoCredential struct {
	account models.DemoAccount
	hash    []byte
}

type authService struct {
	Config   *config.Config
	sessions SessionContext
	mailer   Mailer
	logger   *zap.Logger
	accounts map[string]demoCredential
}

// NewAuthService hashes the demo accounts once so that login compares
// against bcrypt hashes like a real credential store would.
func NewAuthService(sessions SessionContext, mailer Mailer, conf *config.Config, logger *zap.Logger) (AuthService, error) {
	accounts := make(map[string]demoCredential, len(models.DemoAccounts))
	for _, a := range models.DemoAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		accounts[a.Username] = demoCredential{account: a, hash: hash}
	}
	return &authService{
		Config:   conf,
		sessions: sessions,
		mailer:   mailer,
		logger:   logger,
		accounts: accounts,
	}, nil
}

func (a *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *apiError.Error) {
	if fields := models.ValidateStruct(req); fields != nil {
		return nil, apiError.ErrInvalidFields.WithFields(fields)
	}

	cred, ok := a.accounts[req.Username]
	if !ok || bcrypt.CompareHashAndPassword(cred.hash, []byte(req.Password)) != nil {
		a.logger.Info("login rejected", zap.String("username", req.Username))
		return nil, apiError.ErrInvalidCredentials
	}

	session := &models.Session{
		Username: cred.account.Username,
		Name:     cred.account.Name,
		Mobile:   cred.account.Mobile,
	}
	return a.open(ctx, session)
}

func (a *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, *apiError.Error) {
	if fields := models.ValidateStruct(req); fields != nil {
		return nil, apiError.ErrInvalidFields.WithFields(fields)
	}
	if a.Config.SignupOTPRequired && req.OTP != models.DemoOTP {
		return nil, apiError.ErrInvalidOTP
	}

	session := &models.Session{
		Username: models.UsernameFromEmail(req.Email),
		Name:     req.Name,
		Mobile:   req.Mobile,
		Email:    req.Email,
	}
	resp, apiErr := a.open(ctx, session)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := a.mailer.SendWelcome(ctx, req.Email, req.Name); err != nil {
		a.logger.Warn("welcome email failed", zap.String("to", req.Email), zap.Error(err))
	}
	return resp, nil
}

func (a *authService) open(ctx context.Context, session *models.Session) (*models.AuthResponse, *apiError.Error) {
	token, err := a.sessions.SetSession(ctx, session)
	if err != nil {
		a.logger.Error("unable to open session", zap.String("username", session.Username), zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}
	a.logger.Info("session opened", zap.String("username", session.Username), zap.String("session", session.ID))
	return &models.AuthResponse{AccessToken: token, Session: session}, nil
}

// SendOTP stands in for SMS delivery: the code is always the demo code.
func (a *authService) SendOTP(_ context.Context, req *models.OTPRequest) *apiError.Error {
	if fields := models.ValidateStruct(req); fields != nil {
		return apiError.ErrInvalidMobile.WithFields(fields)
	}
	a.logger.Info("otp issued", zap.String("mobile", req.Mobile))
	return nil
}

func (a *authService) PasswordStrength(password string) models.PasswordStrength {
	return models.CheckPassword(password)
}

func (a *authService) Logout(ctx context.Context, token string) error {
	return a.sessions.ClearSession(ctx, token)
}
