package services

import (
	"context"
	"errors"
	"strings"

	"shelfsmart/internal/common"
	"shelfsmart/internal/models"
	"shelfsmart/internal/session"

	"go.uber.org/zap"
)

// AuthService handles login, registration and logout against the session.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.UserProfile, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	Logout(ctx context.Context) error
}

type authService struct {
	api     AuthAPI
	session *session.Session
	logger  *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(api AuthAPI, sess *session.Session, logger *zap.Logger) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{api: api, session: sess, logger: logger}
}

// Login stores the returned token. The profile comes from the response when
// present, otherwise from the token's claims.
func (s *authService) Login(ctx context.Context, email, password string) (models.UserProfile, error) {
	if err := common.ValidateRequiredString(email, "email"); err != nil {
		return models.UserProfile{}, err
	}
	if err := common.ValidateRequiredString(password, "password"); err != nil {
		return models.UserProfile{}, err
	}

	resp, err := s.api.Login(ctx, models.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) && apiErr.Unauthorized() {
			return models.UserProfile{}, common.ErrInvalidCredentials
		}
		return models.UserProfile{}, err
	}
	if resp.Token == "" {
		return models.UserProfile{}, errors.New("login response carried no token")
	}

	var profile models.UserProfile
	if resp.User != nil {
		profile = *resp.User
	} else {
		profile, err = session.ProfileFromToken(resp.Token)
		if err != nil {
			s.logger.Debug("Token carries no readable profile claims", zap.Error(err))
		}
	}
	if profile.Email == "" {
		profile.Email = strings.TrimSpace(email)
	}

	if err := s.session.Save(ctx, resp.Token, profile); err != nil {
		return models.UserProfile{}, err
	}
	s.logger.Info("Logged in", zap.String("email", profile.Email), zap.String("role", profile.Role))
	return profile, nil
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(req.Password, "password"); err != nil {
		return err
	}
	return s.api.Register(ctx, req)
}

func (s *authService) Logout(ctx context.Context) error {
	return s.session.Clear(ctx)
}
