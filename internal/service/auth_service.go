package service

import (
	"context"
	"errors"

	"vfcarvalho/meu-treino/internal/domain"
	"vfcarvalho/meu-treino/internal/identity"
	"vfcarvalho/meu-treino/internal/session"

	"github.com/rs/zerolog/log"
)

// --- Error Definitions ---
var (
	ErrEmptyCredentials = errors.New("email and password cannot be empty")
)

// IdentityClient is the slice of the identity provider API this service
// needs. Satisfied by *identity.Client; tests substitute a fake.
type IdentityClient interface {
	SignIn(ctx context.Context, email, password string) (*identity.Credentials, error)
	SignUp(ctx context.Context, email, password string) (*identity.Credentials, error)
}

// --- Service Interface ---
type AuthService interface {
	// SignIn authenticates against the identity provider and, on success,
	// creates a session. Returns the session token to set as a cookie.
	SignIn(ctx context.Context, email, password string) (token string, sess domain.Session, err error)
	// Register creates an account with the provider. It does NOT sign
	// the user in; success only means the account now exists.
	Register(ctx context.Context, email, password string) error
	// SignOut destroys the session. Unknown tokens are a no-op.
	SignOut(token string)
	// Session resolves a session token.
	Session(token string) (domain.Session, bool)
}

// --- Service Implementation ---

type authService struct {
	idClient IdentityClient
	sessions *session.Manager
}

// NewAuthService creates a new instance of authService.
func NewAuthService(idClient IdentityClient, sessions *session.Manager) AuthService {
	return &authService{
		idClient: idClient,
		sessions: sessions,
	}
}

func (s *authService) SignIn(ctx context.Context, email, password string) (string, domain.Session, error) {
	if email == "" || password == "" {
		return "", domain.Session{}, ErrEmptyCredentials
	}

	creds, err := s.idClient.SignIn(ctx, email, password)
	if err != nil {
		// No session is created on any failure; the caller decides how
		// to present provider rejections vs transport errors.
		return "", domain.Session{}, err
	}

	sess := domain.Session{
		Email:        creds.Email,
		UserID:       creds.UserID,
		IDToken:      creds.IDToken,
		RefreshToken: creds.RefreshToken,
	}
	token := s.sessions.Create(sess)

	log.Info().Str("userId", sess.UserID).Msg("user signed in")
	return token, sess, nil
}

func (s *authService) Register(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrEmptyCredentials
	}

	creds, err := s.idClient.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	log.Info().Str("userId", creds.UserID).Msg("account created")
	return nil
}

func (s *authService) SignOut(token string) {
	s.sessions.Delete(token)
}

func (s *authService) Session(token string) (domain.Session, bool) {
	return s.sessions.Get(token)
}
