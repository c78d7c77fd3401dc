// Package service manages back-office operators: account creation and
// activation, login, and the password-reset flow.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kyc/internal/auth/models"
	kycmodels "kyc/internal/kyc/models"
	"kyc/internal/kyc/ports"
	"kyc/internal/platform/workers"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
	"kyc/pkg/email"
	"kyc/pkg/platform/sentinel"
	"kyc/pkg/requestcontext"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, page kycmodels.Page) ([]*models.User, error)
	Update(ctx context.Context, u *models.User) error
}

type ResetTokenStore interface {
	Create(ctx context.Context, t *models.ResetToken) error
	FindByToken(ctx context.Context, token id.ResetTokenID) (*models.ResetToken, error)
	MarkUsed(ctx context.Context, token id.ResetTokenID, now time.Time) error
}

// TxRunner runs fn atomically. postgres.TxRunner satisfies it.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type noTx struct{}

func (noTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

const defaultResetTTL = time.Hour

type Service struct {
	users      UserStore
	tokens     ResetTokenStore
	tx         TxRunner
	jwt        *TokenService
	notifier   ports.Notifier
	dispatcher workers.Dispatcher
	logger     *slog.Logger
	resetTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

type Option func(*Service)

func WithTx(tx TxRunner) Option                  { return func(s *Service) { s.tx = tx } }
func WithNotifier(n ports.Notifier) Option       { return func(s *Service) { s.notifier = n } }
func WithDispatcher(d workers.Dispatcher) Option { return func(s *Service) { s.dispatcher = d } }
func WithLogger(l *slog.Logger) Option           { return func(s *Service) { s.logger = l } }
func WithResetTTL(ttl time.Duration) Option      { return func(s *Service) { s.resetTTL = ttl } }

// WithBcryptCost lowers the hashing cost in tests.
func WithBcryptCost(cost int) Option { return func(s *Service) { s.bcryptCost = cost } }

func New(users UserStore, tokens ResetTokenStore, jwt *TokenService, opts ...Option) *Service {
	s := &Service{
		users:      users,
		tokens:     tokens,
		jwt:        jwt,
		resetTTL:   defaultResetTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tx == nil {
		s.tx = noTx{}
	}
	if s.dispatcher == nil {
		s.dispatcher = workers.Inline{Logger: s.logger}
	}
	return s
}

type CreateUserInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

// CreateUser registers an inactive operator.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	return s.createUser(ctx, in, false)
}

func (s *Service) createUser(ctx context.Context, in CreateUserInput, active bool) (*models.User, error) {
	if err := models.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}
	now := s.now()
	u, err := models.NewUser(id.NewUserID(), in.Name, in.Surname, in.Email, string(hash), now)
	if err != nil {
		return nil, err
	}
	if active {
		u.Activate(now)
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, translate(err, "user")
	}
	s.logger.InfoContext(ctx, "user created", "user_id", u.ID.String(), "active", u.Active)
	return u, nil
}

func (s *Service) ActivateUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "user")
	}
	if u.Active {
		return u, nil
	}
	u.Activate(s.now())
	if err := s.users.Update(ctx, u); err != nil {
		return nil, translate(err, "user")
	}
	s.logger.InfoContext(ctx, "user activated", "user_id", u.ID.String())
	return u, nil
}

// DeactivateUser disables an operator account. The operator can no longer log
// in and tokens already issued to them stop validating. Operators cannot
// deactivate themselves.
func (s *Service) DeactivateUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	if requestcontext.UserID(ctx) == userID {
		return nil, dErrors.New(dErrors.CodeForbidden, "operators cannot deactivate their own account")
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "user")
	}
	if !u.Active {
		return u, nil
	}
	u.Deactivate(s.now())
	if err := s.users.Update(ctx, u); err != nil {
		return nil, translate(err, "user")
	}
	s.logger.InfoContext(ctx, "user deactivated",
		"user_id", u.ID.String(),
		"by", requestcontext.UserID(ctx).String(),
	)
	return u, nil
}

// ValidateToken checks the token signature and expiry and that its operator
// is still active.
func (s *Service) ValidateToken(ctx context.Context, token string) (id.UserID, error) {
	userID, err := s.jwt.ValidateToken(token)
	if err != nil {
		return id.UserID{}, err
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "operator no longer exists")
		}
		return id.UserID{}, translate(err, "user")
	}
	if !u.Active {
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "operator is deactivated")
	}
	return userID, nil
}

func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "user")
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, page kycmodels.Page) ([]*models.User, error) {
	users, err := s.users.List(ctx, page.Normalize())
	if err != nil {
		return nil, translate(err, "user")
	}
	return users, nil
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

// Login checks the credentials of an active operator and issues an access
// token. Unknown emails, wrong passwords and inactive users all fail with
// the same Unauthorized error.
func (s *Service) Login(ctx context.Context, address, password string) (*LoginResult, error) {
	invalid := dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")

	canonical, err := email.Normalize(address)
	if err != nil {
		return nil, invalid
	}
	u, err := s.users.FindByEmail(ctx, canonical)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, invalid
		}
		return nil, translate(err, "user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "login failed: wrong password", "user_id", u.ID.String())
		return nil, invalid
	}
	if !u.Active {
		s.logger.WarnContext(ctx, "login failed: user inactive", "user_id", u.ID.String())
		return nil, invalid
	}

	token, expiresAt, err := s.jwt.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, User: u}, nil
}

// RequestPasswordReset creates a one-time reset token and emails the link.
// An unknown email succeeds silently so the endpoint does not reveal which
// addresses have accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, address, language string) error {
	lang, err := kycmodels.ParseLanguage(language)
	if err != nil {
		return err
	}
	canonical, err := email.Normalize(address)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "invalid email")
	}
	u, err := s.users.FindByEmail(ctx, canonical)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return translate(err, "user")
	}

	tok := models.NewResetToken(u.ID, s.now())
	if err := s.tokens.Create(ctx, tok); err != nil {
		return translate(err, "reset token")
	}

	if s.notifier == nil {
		s.logger.WarnContext(ctx, "notifier not configured, reset email dropped", "user_id", u.ID.String())
		return nil
	}
	msg := ports.Email{
		Template: ports.TemplatePasswordReset,
		Language: lang,
		To:       u.Email,
		Params:   map[string]string{"token": tok.Token.String()},
	}
	s.dispatcher.Submit(ctx, "email_password_reset", func(ctx context.Context) error {
		return s.notifier.Send(ctx, msg)
	})
	return nil
}

// ResetPassword consumes token and sets a new password. Unknown tokens are
// NotFound; used or expired tokens are Conflict.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	tokenID, err := id.ParseResetTokenID(token)
	if err != nil {
		return dErrors.New(dErrors.CodeNotFound, "reset token not found")
	}
	if err := models.ValidatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		now := s.now()
		tok, err := s.tokens.FindByToken(ctx, tokenID)
		if err != nil {
			return translate(err, "reset token")
		}
		if tok.IsUsed() {
			return dErrors.New(dErrors.CodeConflict, "reset token already used")
		}
		if tok.IsExpired(s.resetTTL, now) {
			return dErrors.New(dErrors.CodeConflict, "reset token expired")
		}
		if err := s.tokens.MarkUsed(ctx, tokenID, now); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "reset token already used")
			}
			return translate(err, "reset token")
		}

		u, err := s.users.FindByID(ctx, tok.UserID)
		if err != nil {
			return translate(err, "user")
		}
		u.SetPasswordHash(string(hash), now)
		if err := s.users.Update(ctx, u); err != nil {
			return translate(err, "user")
		}
		s.logger.InfoContext(ctx, "password reset", "user_id", u.ID.String())
		return nil
	})
}

// SeedAdmin ensures an active operator exists for address. The name is
// derived from the address. Returns created=false when the user exists.
func (s *Service) SeedAdmin(ctx context.Context, address, password string) (_ *models.User, created bool, err error) {
	canonical, err := email.Normalize(address)
	if err != nil {
		return nil, false, dErrors.New(dErrors.CodeValidation, "invalid admin email")
	}
	existing, err := s.users.FindByEmail(ctx, canonical)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, translate(err, "user")
	}

	name, surname := email.DeriveNameFromEmail(canonical)
	u, err := s.createUser(ctx, CreateUserInput{Name: name, Surname: surname, Email: canonical, Password: password}, true)
	if dErrors.HasCode(err, dErrors.CodeConflict) {
		existing, findErr := s.users.FindByEmail(ctx, canonical)
		if findErr != nil {
			return nil, false, translate(findErr, "user")
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, entity+" already exists")
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, entity+" store failure")
}
