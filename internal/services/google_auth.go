package services

import (
	"context"

	"expense_tracker/internal/models"
	"expense_tracker/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type GoogleAuthService struct {
	oauth  *oauth2.Config
	auth   *AuthService
	users  *UserService
	logger *logrus.Logger
}

func NewGoogleAuthService(clientID, clientSecret, redirectURL string, auth *AuthService, users *UserService, logger *logrus.Logger) *GoogleAuthService {
	return &GoogleAuthService{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{googleoauth.UserinfoEmailScope, googleoauth.OpenIDScope},
			Endpoint:     google.Endpoint,
		},
		auth:   auth,
		users:  users,
		logger: logger,
	}
}

// LoginURL returns the consent page URL carrying a signed state.
func (s *GoogleAuthService) LoginURL() (string, error) {
	state, err := s.auth.SignState()
	if err != nil {
		return "", err
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Callback exchanges the code and returns the local user for the Google account.
func (s *GoogleAuthService) Callback(ctx context.Context, state, code string) (*models.User, error) {
	if err := s.auth.VerifyState(state); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, utils.BadRequest("Missing authorization code")
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.logger.WithError(err).Warn("google code exchange failed")
		return nil, utils.Unauthorized("Could not exchange authorization code")
	}

	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(s.oauth.TokenSource(ctx, token)))
	if err != nil {
		return nil, utils.Internal("could not create userinfo client", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, utils.Unauthorized("Could not fetch Google user info")
	}
	if info.Id == "" || info.Email == "" {
		return nil, utils.Unauthorized("Google account has no email")
	}

	verified := info.VerifiedEmail != nil && *info.VerifiedEmail
	user, err := s.users.FindOrCreateExternal(ctx, info.Id, info.Email, verified)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("google login")
	return user, nil
}
