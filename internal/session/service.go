package session

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkordes/hos-planner/internal/domain"
)

// Authenticator is the part of the API client the session service needs.
// *apiclient.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.TokenPair, error)
	Register(ctx context.Context, reg domain.Registration) (domain.TokenPair, error)
	UserInfo(ctx context.Context) (domain.User, error)
}

// Service implements login, registration and logout on top of a Store.
type Service struct {
	store  *Store
	auth   Authenticator
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(store *Store, auth Authenticator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, auth: auth, logger: logger}
}

// Store returns the underlying session store.
func (s *Service) Store() *Store { return s.store }

// Login authenticates, persists the tokens, then fetches and persists the
// user profile. Rejected credentials return *domain.AuthenticationError.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return domain.User{}, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}
	pair, err := s.auth.Login(ctx, creds)
	if err != nil {
		return domain.User{}, fmt.Errorf("session.Service.Login: %w", err)
	}
	u, err := s.establish(ctx, pair)
	if err != nil {
		return domain.User{}, fmt.Errorf("session.Service.Login: %w", err)
	}
	s.logger.InfoContext(ctx, "logged in", "user", u.Username, "admin", u.IsAdmin)
	return u, nil
}

// Register creates an account and logs into it.
func (s *Service) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	if err := validateRegistration(reg); err != nil {
		return domain.User{}, err
	}
	pair, err := s.auth.Register(ctx, reg)
	if err != nil {
		return domain.User{}, fmt.Errorf("session.Service.Register: %w", err)
	}
	u, err := s.establish(ctx, pair)
	if err != nil {
		return domain.User{}, fmt.Errorf("session.Service.Register: %w", err)
	}
	s.logger.InfoContext(ctx, "registered", "user", u.Username)
	return u, nil
}

// Logout clears the session locally. The server is not contacted.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("session.Service.Logout: %w", err)
	}
	s.logger.InfoContext(ctx, "logged out")
	return nil
}

// establish stores the tokens so /user-info/ can be called with them, then
// stores the user. A failed profile fetch leaves nothing behind.
func (s *Service) establish(ctx context.Context, pair domain.TokenPair) (domain.User, error) {
	if err := s.store.SetTokens(ctx, pair); err != nil {
		return domain.User{}, err
	}
	u, err := s.auth.UserInfo(ctx)
	if err != nil {
		s.store.Expire(ctx)
		return domain.User{}, err
	}
	if err := s.store.SetUser(ctx, u); err != nil {
		s.store.Expire(ctx)
		return domain.User{}, err
	}
	return u, nil
}

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// registrationRules are the minimum lengths of the registration fields.
var registrationRules = []struct {
	field string
	value func(domain.Registration) string
	min   int
}{
	{"username", func(r domain.Registration) string { return r.Username }, 3},
	{"email", func(r domain.Registration) string { return r.Email }, 1},
	{"password", func(r domain.Registration) string { return r.Password }, 8},
	{"first_name", func(r domain.Registration) string { return r.FirstName }, 2},
	{"last_name", func(r domain.Registration) string { return r.LastName }, 2},
	{"license_number", func(r domain.Registration) string { return r.LicenseNumber }, 8},
	{"carrier_name", func(r domain.Registration) string { return r.CarrierName }, 3},
	{"carrier_address", func(r domain.Registration) string { return r.CarrierAddress }, 10},
}

func validateRegistration(reg domain.Registration) error {
	for _, rule := range registrationRules {
		v := strings.TrimSpace(rule.value(reg))
		if v == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, rule.field)
		}
		if utf8.RuneCountInString(v) < rule.min {
			return fmt.Errorf("%w: %s must be at least %d characters", domain.ErrValidation, rule.field, rule.min)
		}
	}
	if !usernamePattern.MatchString(reg.Username) {
		return fmt.Errorf("%w: username may only contain letters, numbers and underscores", domain.ErrValidation)
	}
	if !emailPattern.MatchString(reg.Email) {
		return fmt.Errorf("%w: email is not valid", domain.ErrValidation)
	}
	return nil
}
