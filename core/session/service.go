package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
)

var (
	// errors
	ErrNotFound = errors.New("session not found")

	errUsernameRequired = "Username is required"
	errPasswordRequired = "Password is required"

	MsgLoginSuccess = "Login successful. Redirecting to dashboard..."
	MsgGenericError = "An error has occurred. Please try again later."
	msgBadLogin     = "Invalid username or password"

	nowFunc = time.Now // mockable
)

// AuthenticationError is returned when the courses API rejects the credentials.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

type (
	// Store persists sessions between requests.
	Store interface {
		Save(ctx context.Context, sess Session) error
		Get(ctx context.Context, id string) (Session, error)
		Delete(ctx context.Context, id string) error
	}

	// Authenticator exchanges credentials for a courses API profile.
	Authenticator interface {
		Login(ctx context.Context, creds Credentials) (Profile, error)
	}

	Service struct {
		auth   Authenticator
		store  Store
		logger core.Logger
	}
)

func NewService(auth Authenticator, store Store, logger core.Logger) *Service {
	return &Service{auth: auth, store: store, logger: logger}
}

// Login authenticates against the courses API and opens a new session.
func (svc *Service) Login(ctx context.Context, creds Credentials) (Session, error) {
	if err := creds.Validate(); err != nil {
		return Session{}, err
	}

	profile, err := svc.auth.Login(ctx, creds)
	if err != nil {
		rErr, ok := core.AsRemoteError(err)
		switch {
		case ok && rErr.Status == http.StatusUnauthorized:
			msg := rErr.Message
			if msg == "" {
				msg = msgBadLogin
			}
			return Session{}, &AuthenticationError{Message: msg}
		case ok:
			svc.logger.Warn("login failed", err)
			return Session{}, &core.RemoteError{Status: rErr.Status, Message: MsgGenericError, Err: err}
		default:
			return Session{}, errors.Wrap(err, "authenticating")
		}
	}

	sess := Session{
		ID:            uuid.New().String(),
		Token:         profile.Token,
		FullName:      profile.FullName,
		Username:      profile.Username,
		Role:          profile.Role,
		StudentNumber: profile.StudentNumber,
		Email:         profile.Email,
		CreatedAt:     nowFunc().UTC(),
	}
	if err = svc.store.Save(ctx, sess); err != nil {
		return Session{}, errors.Wrap(err, "saving session")
	}
	return sess, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Session, error) {
	return svc.store.Get(ctx, id)
}

func (svc *Service) Logout(ctx context.Context, id string) error {
	if err := svc.store.Delete(ctx, id); err != nil && errors.Cause(err) != ErrNotFound {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}
