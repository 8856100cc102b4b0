package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/pkg/validator"
	"github.com/Pesokrava/ecocart/internal/repository/slot"
)

// DefaultDelay is the artificial latency of login and register
const DefaultDelay = time.Second

// User-facing failure messages
const (
	MsgInvalidLogin    = "Invalid credentials. Password must be at least 6 characters."
	MsgInvalidRegister = "Please check your details. Name must be at least 2 characters and password at least 6."
)

// AuthError is returned when credentials fail validation. It wraps
// domain.ErrInvalidCredentials and carries the message shown to the shopper.
type AuthError struct {
	Message string
	Fields  []string
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return domain.ErrInvalidCredentials
}

// demoUsers are the accounts login recognises by email
var demoUsers = []domain.User{
	{
		ID:         "1",
		Name:       "Priya Sharma",
		Email:      "priya@example.com",
		Avatar:     "https://images.pexels.com/photos/1239291/pexels-photo-1239291.jpeg?auto=compress&cs=tinysrgb&w=100",
		JoinedDate: "2024-01-15",
	},
	{
		ID:         "2",
		Name:       "Rahul Kumar",
		Email:      "rahul@example.com",
		Avatar:     "https://images.pexels.com/photos/2379004/pexels-photo-2379004.jpeg?auto=compress&cs=tinysrgb&w=100",
		JoinedDate: "2024-02-20",
	},
}

type loginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"min=6"`
}

type registerInput struct {
	Name     string `validate:"min=2"`
	Email    string `validate:"required"`
	Password string `validate:"min=6"`
}

// Options tunes a Store
type Options struct {
	// Delay is the artificial latency of login and register. Zero disables it.
	Delay time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Store simulates authentication for one shopper session. The current user
// is persisted in the user slot.
type Store struct {
	mu     sync.RWMutex
	user   *domain.User
	slots  *slot.Adapter
	delay  time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewStore creates a session store, restoring the persisted user if any
func NewStore(ctx context.Context, slots *slot.Adapter, log *logger.Logger, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Store{
		slots:  slots,
		delay:  opts.Delay,
		now:    now,
		logger: log,
	}

	var none *domain.User
	if user := slot.Read(ctx, slots, domain.SlotUser, none); user != nil && user.Email != "" {
		s.user = user
	}

	return s
}

// Current returns a copy of the signed-in user, or nil
func (s *Store) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a user is signed in
func (s *Store) IsAuthenticated() bool {
	return s.Current() != nil
}

// Name returns the display name of the signed-in user, or an empty string
func (s *Store) Name() string {
	if u := s.Current(); u != nil {
		return u.Name
	}
	return ""
}

// Login signs in a known demo user, or one made up from the email, once the
// password is long enough. On invalid credentials the session is cleared and
// an *AuthError returned. If ctx ends during the delay the attempt is
// abandoned and the session left as it was.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	input := loginInput{Email: strings.TrimSpace(email), Password: password}
	if err := validator.Get().Struct(input); err != nil {
		s.clear(ctx)
		s.logger.Infof("Login rejected for %s", input.Email)
		return nil, &AuthError{Message: MsgInvalidLogin, Fields: validator.FailedFields(err)}
	}

	user := s.lookup(input.Email)
	s.install(ctx, user)
	s.logger.Infof("Welcome back, %s", user.Name)

	u := user
	return &u, nil
}

// Register signs in a freshly created user
func (s *Store) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	input := registerInput{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Password: password}
	if err := validator.Get().Struct(input); err != nil {
		s.clear(ctx)
		s.logger.Infof("Registration rejected for %s", input.Email)
		return nil, &AuthError{Message: MsgInvalidRegister, Fields: validator.FailedFields(err)}
	}

	user := domain.User{
		ID:         uuid.New().String(),
		Name:       input.Name,
		Email:      input.Email,
		JoinedDate: s.today(),
	}
	s.install(ctx, user)
	s.logger.Infof("Welcome to EcoCart, %s", user.Name)

	u := user
	return &u, nil
}

// Logout clears the session unconditionally
func (s *Store) Logout(ctx context.Context) {
	s.clear(ctx)
}

func (s *Store) lookup(email string) domain.User {
	for _, u := range demoUsers {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}

	name := email
	if at := strings.Index(email, "@"); at >= 0 {
		name = email[:at]
	}
	return domain.User{
		ID:         uuid.New().String(),
		Name:       name,
		Email:      email,
		JoinedDate: s.today(),
	}
}

func (s *Store) install(ctx context.Context, user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.slots.Write(ctx, domain.SlotUser, user)
}

func (s *Store) clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.slots.Delete(ctx, domain.SlotUser)
}

func (s *Store) today() string {
	return s.now().UTC().Format("2006-01-02")
}

// wait sleeps for the configured delay without holding any lock
func (s *Store) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AsAuthError extracts the user-facing credential failure from err
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}
