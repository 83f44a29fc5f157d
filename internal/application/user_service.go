package application

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gestorly/catalog-api/internal/domain/entity"
	"github.com/gestorly/catalog-api/internal/domain/repository"
	"github.com/gestorly/catalog-api/pkg/helpers"
	"github.com/gestorly/catalog-api/pkg/mailer"
)

var (
	// local@domain.tld: no whitespace or extra @, a dot in the domain part.
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// Canonical input form: four digits, hyphen, four digits. The stored
	// value is the hyphen-stripped eight-digit form.
	phonePattern = regexp.MustCompile(`^\d{4}-\d{4}$`)
)

const minPasswordLen = 8

// NormalizePhone strips separator characters, leaving the digits-only
// form used as the uniqueness and storage key.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '.', '(', ')':
			return -1
		}
		return r
	}, phone)
}

// UserService governs account creation and authentication.
type UserService struct {
	Store  repository.Factory
	Logger *logrus.Logger
	Events *helpers.RabbitPublisher // optional; welcome email jobs
}

func NewUserService(store repository.Factory, logger *logrus.Logger, events *helpers.RabbitPublisher) *UserService {
	return &UserService{Store: store, Logger: logger, Events: events}
}

// IsEmailTaken reports whether a user with this email already exists.
func (s *UserService) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	st, err := s.Store.Acquire(ctx)
	if err != nil {
		return false, operationFailed("could not check email availability", err)
	}
	defer st.Release()
	taken, err := st.Users().ExistsByEmail(ctx, email)
	if err != nil {
		return false, operationFailed("could not check email availability", err)
	}
	return taken, nil
}

// IsUsernameTaken reports whether a user with this username already exists.
func (s *UserService) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	st, err := s.Store.Acquire(ctx)
	if err != nil {
		return false, operationFailed("could not check username availability", err)
	}
	defer st.Release()
	taken, err := st.Users().ExistsByUsername(ctx, username)
	if err != nil {
		return false, operationFailed("could not check username availability", err)
	}
	return taken, nil
}

// IsPhoneTaken reports whether a user with this phone already exists.
// The argument is normalized before comparison, so hyphenated and plain
// forms of the same number are equivalent.
func (s *UserService) IsPhoneTaken(ctx context.Context, phone string) (bool, error) {
	st, err := s.Store.Acquire(ctx)
	if err != nil {
		return false, operationFailed("could not check phone availability", err)
	}
	defer st.Release()
	taken, err := st.Users().ExistsByPhone(ctx, NormalizePhone(phone))
	if err != nil {
		return false, operationFailed("could not check phone availability", err)
	}
	return taken, nil
}

// Register creates a new account. The validation order is a contract:
// presence and password length first, then uniqueness (email, then
// username, then phone, first match wins), then format checks, then
// hashing and persistence. A malformed email on an already-taken username
// therefore reports the username conflict, not the format error.
func (s *UserService) Register(ctx context.Context, username, lastName, email, phone, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	lastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)

	if username == "" {
		return nil, NewValidationError("username", "username is required")
	}
	if email == "" {
		return nil, NewValidationError("email", "email is required")
	}
	if phone == "" {
		return nil, NewValidationError("phone", "phone is required")
	}
	if password == "" {
		return nil, NewValidationError("password", "password is required")
	}
	if len(password) < minPasswordLen {
		return nil, NewValidationError("password", "password must be at least 8 characters")
	}

	st, err := s.Store.Acquire(ctx)
	if err != nil {
		return nil, operationFailed("registration could not be completed, try again later", err)
	}
	defer st.Release()

	normalizedPhone := NormalizePhone(phone)
	if err := s.checkUnique(ctx, st.Users(), username, email, normalizedPhone); err != nil {
		return nil, err
	}

	if !emailPattern.MatchString(email) {
		return nil, NewValidationError("email", "email format is not valid")
	}
	if !phonePattern.MatchString(phone) {
		return nil, NewValidationError("phone", "phone must have the format 0000-0000")
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		s.Logger.WithError(err).Error("password hashing failed")
		return nil, operationFailed("registration could not be completed, try again later", err)
	}

	u := &entity.User{
		Username:     username,
		LastName:     lastName,
		Email:        email,
		Phone:        normalizedPhone,
		PasswordHash: []byte(hash),
	}

	if err := st.Users().Create(ctx, u); err != nil {
		var ce *repository.ConstraintError
		if errors.As(err, &ce) {
			s.Logger.WithError(err).WithField("email", email).Warn("registration rejected by store constraints")
			return nil, &ValidationError{Violations: ce.Violations}
		}
		s.Logger.WithError(err).WithField("email", email).Error("registration persist failed")
		return nil, operationFailed("registration could not be completed, try again later", err)
	}

	s.Logger.WithField("email", email).Info("user registered")
	s.publishWelcome(ctx, u)
	return u, nil
}

// checkUnique enforces the documented priority order: email, then
// username, then normalized phone, short-circuiting on the first match.
func (s *UserService) checkUnique(ctx context.Context, users repository.UserRepository, username, email, normalizedPhone string) error {
	taken, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return operationFailed("registration could not be completed, try again later", err)
	}
	if taken {
		return &ConflictError{Field: "email", Message: "email is already registered"}
	}
	taken, err = users.ExistsByUsername(ctx, username)
	if err != nil {
		return operationFailed("registration could not be completed, try again later", err)
	}
	if taken {
		return &ConflictError{Field: "username", Message: "username is already registered"}
	}
	taken, err = users.ExistsByPhone(ctx, normalizedPhone)
	if err != nil {
		return operationFailed("registration could not be completed, try again later", err)
	}
	if taken {
		return &ConflictError{Field: "phone", Message: "phone is already registered"}
	}
	return nil
}

// publishWelcome enqueues a welcome email job. Best effort: a broker
// failure never fails the registration.
func (s *UserService) publishWelcome(ctx context.Context, u *entity.User) {
	if s.Events == nil {
		return
	}
	job := mailer.EmailJob{
		To:      u.Email,
		Subject: "Welcome to the catalog",
		Text:    "Hi " + u.Username + ", your account has been created.",
	}
	if err := s.Events.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("welcome email enqueue failed")
	}
}

// Login looks up the account by email and verifies the password against
// the stored hash. A missing account, a wrong password and an operational
// failure are deliberately indistinguishable to the caller: all return
// nil. Failures are only logged.
func (s *UserService) Login(ctx context.Context, email, password string) *entity.User {
	st, err := s.Store.Acquire(ctx)
	if err != nil {
		s.Logger.WithError(err).Error("login: store unavailable")
		return nil
	}
	defer st.Release()

	u, err := st.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Logger.WithField("email", email).Info("login attempt for unknown email")
		} else {
			s.Logger.WithError(err).WithField("email", email).Error("login lookup failed")
		}
		return nil
	}

	if !helpers.CompareHashAndPassword(string(u.PasswordHash), password) {
		s.Logger.WithField("email", email).Info("login attempt with invalid password")
		return nil
	}

	s.Logger.WithField("email", email).Info("login succeeded")
	return u
}
