package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/slidecast/slidecast/pkg/ids"
	"github.com/slidecast/slidecast/pkg/store"
)

var (
	// ErrEmailTaken is returned when registering with an email that
	// already has an account. Uniqueness is enforced here by lookup,
	// not by the store.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on login with an unknown email
	// or a wrong password. Callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingFields is returned when a required registration or
	// login field is empty.
	ErrMissingFields = errors.New("missing required fields")
)

// Service manages user accounts on top of the users collection.
type Service struct {
	users  *store.Collection[User]
	issuer *TokenIssuer
}

// NewService creates an account service.
func NewService(users *store.Collection[User], issuer *TokenIssuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// Session is the result of a successful register, login or refresh.
type Session struct {
	User      Profile `json:"user"`
	Token     string  `json:"token"`
	ExpiresIn string  `json:"expiresIn"`
}

// Register creates a new USER-role account and signs it in. The email
// must not already be registered.
func (s *Service) Register(email, password, name string) (*Session, error) {
	if email == "" || password == "" || name == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.users.FindByField("email", email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := User{
		ID:        ids.New("user"),
		Email:     email,
		Password:  hash,
		Name:      name,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.users.Insert(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.session(user)
}

// Login verifies credentials and returns a fresh session.
func (s *Service) Login(email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.FindByField("email", email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return s.session(user)
}

// Profile returns the credential-free record for a user id.
func (s *Service) Profile(userID string) (Profile, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return Profile{}, err
	}
	return user.Profile(), nil
}

// Refresh re-issues a session token for an already authenticated user.
func (s *Service) Refresh(userID string) (*Session, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

// Lookup returns the full user record, including the password hash.
// Internal callers only.
func (s *Service) Lookup(userID string) (User, error) {
	return s.users.FindByID(userID)
}

func (s *Service) session(user User) (*Session, error) {
	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{
		User:      user.Profile(),
		Token:     token,
		ExpiresIn: s.issuer.TTL().String(),
	}, nil
}
