package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hivedesk/internal/logger"
	"hivedesk/internal/models"
	"hivedesk/internal/repositories"
	"hivedesk/internal/utils"
)

type OTPPurpose string

const (
	PurposeSignUp OTPPurpose = "signup"
	PurposeSignIn OTPPurpose = "signin"
)

type SignUpInput struct {
	Name     string
	Email    string
	Birthday string
	Password string
	OTP      string
}

type SignInResult struct {
	// OTPSent is set when no credential was presented; Token is empty then.
	OTPSent   bool
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// AuthService drives an identity through NoAccount, Provisional and Verified.
type AuthService interface {
	SendOTP(ctx context.Context, email string, purpose OTPPurpose, name string) error
	VerifyOTP(ctx context.Context, email, code string) error
	SignUp(ctx context.Context, in SignUpInput) (*models.User, error)
	SignIn(ctx context.Context, email string, cred Credential, keepLoggedIn bool) (*SignInResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	users      repositories.UserRepository
	categories CategoryService
	hasher     *PasswordHasher
	tokens     *TokenService
	email      EmailService
	log        *logger.Logger
	otpTTL     time.Duration

	now     func() time.Time
	newCode func() (string, error)
}

func NewAuthService(
	users repositories.UserRepository,
	categories CategoryService,
	hasher *PasswordHasher,
	tokens *TokenService,
	email EmailService,
	otpTTL time.Duration,
	log *logger.Logger,
) AuthService {
	if otpTTL <= 0 {
		otpTTL = DefaultOTPTTL
	}
	return &authService{
		users:      users,
		categories: categories,
		hasher:     hasher,
		tokens:     tokens,
		email:      email,
		log:        log,
		otpTTL:     otpTTL,
		now:        time.Now,
		newCode:    utils.NewOTPCode,
	}
}

// findByEmail returns (nil, nil) when no record exists.
func (s *authService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func (s *authService) save(ctx context.Context, u *models.User, isNew bool) error {
	if isNew {
		return s.users.Create(ctx, u)
	}
	return s.users.Update(ctx, u)
}

// issueAndSend stores a fresh code on u, then dispatches it. A failed
// dispatch leaves the stored code valid.
func (s *authService) issueAndSend(ctx context.Context, u models.User, isNew bool) (models.User, error) {
	code, err := s.newCode()
	if err != nil {
		return u, fmt.Errorf("generate otp: %w", err)
	}
	u = IssueOTP(u, code, s.now(), s.otpTTL)
	if err := s.save(ctx, &u, isNew); err != nil {
		return u, err
	}
	if err := s.email.SendOTP(u.Email, code, u.Name); err != nil {
		s.log.Error("[auth][otp] dispatch failed", "email", u.Email, "err", err)
		return u, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return u, nil
}

func (s *authService) SendOTP(ctx context.Context, email string, purpose OTPPurpose, name string) error {
	email = NormalizeEmail(email)
	if purpose != PurposeSignUp && purpose != PurposeSignIn {
		return ErrInvalidPurpose
	}

	u, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	isNew := false
	switch purpose {
	case PurposeSignUp:
		if u != nil && u.IsVerified {
			return ErrAlreadyExists
		}
		if u == nil {
			if name == "" {
				name = "User"
			}
			now := s.now()
			u = &models.User{ID: uuid.New(), Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
			isNew = true
		} else if name != "" {
			u.Name = name
		}
	case PurposeSignIn:
		if u == nil {
			return ErrNotFound
		}
	}

	if _, err := s.issueAndSend(ctx, *u, isNew); err != nil {
		return err
	}
	s.log.Info("[auth][send-otp] issued", "email", email, "purpose", string(purpose))
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, email, code string) error {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}
	return VerifyOTP(*u, code, s.now())
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	now := s.now()
	email := NormalizeEmail(in.Email)

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	birthday, err := ParseBirthday(in.Birthday, now)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, invalid("Password is required")
	}

	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsVerified {
		return nil, ErrAlreadyExists
	}

	var u models.User
	isNew := existing == nil
	if isNew {
		u = models.User{ID: uuid.New(), Email: email, CreatedAt: now}
	} else {
		u = *existing
	}

	if in.OTP != "" {
		if existing == nil {
			return nil, ErrNoPendingOTP
		}
		if err := VerifyOTP(u, in.OTP, now); err != nil {
			return nil, err
		}
		u = ClearOTP(u)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u.Name = name
	u.Birthday = &birthday
	u.PasswordHash = &hash
	u.IsVerified = in.OTP != ""
	u.UpdatedAt = now

	if !u.IsVerified {
		u, err = s.issueAndSend(ctx, u, isNew)
		if err != nil {
			return nil, err
		}
		s.log.Info("[auth][signup] pending verification", "user_id", u.ID)
		return &u, nil
	}

	if err := s.save(ctx, &u, isNew); err != nil {
		return nil, err
	}
	s.onVerified(ctx, u)
	s.log.Info("[auth][signup] account created", "user_id", u.ID)
	return &u, nil
}

// onVerified runs the one-time side effects of a newly verified account.
// Failures are logged only.
func (s *authService) onVerified(ctx context.Context, u models.User) {
	if s.categories != nil {
		if _, err := s.categories.ProvisionDefaults(ctx, u.ID); err != nil {
			s.log.Error("[auth][signup] default categories failed", "user_id", u.ID, "err", err)
		}
	}
	if err := s.email.SendWelcomeEmail(u.Email, u.Name); err != nil {
		s.log.Warn("[auth][signup] welcome email failed", "email", u.Email, "err", err)
	}
}

func (s *authService) SignIn(ctx context.Context, email string, cred Credential, keepLoggedIn bool) (*SignInResult, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	now := s.now()
	verifiedNow := false

	switch cred.Kind {
	case CredentialNone:
		if _, err := s.issueAndSend(ctx, *u, false); err != nil {
			return nil, err
		}
		s.log.Info("[auth][signin] otp dispatched", "user_id", u.ID)
		return &SignInResult{OTPSent: true}, nil

	case CredentialPassword:
		if err := s.hasher.CheckPassword(*u, cred.Secret); err != nil {
			s.log.Info("[auth][signin] password rejected", "user_id", u.ID)
			return nil, err
		}
		if !u.IsVerified {
			return nil, ErrNotVerified
		}

	case CredentialOTP:
		// A placeholder holding only a sign-up code is not an account yet.
		if !u.IsVerified && !u.HasPassword() {
			return nil, ErrNotFound
		}
		if err := VerifyOTP(*u, cred.Secret, now); err != nil {
			return nil, err
		}
		*u = ClearOTP(*u)
		if !u.IsVerified {
			u.IsVerified = true
			verifiedNow = true
		}

	default:
		return nil, fmt.Errorf("unknown credential kind %d", cred.Kind)
	}

	u.LastLogin = &now
	u.UpdatedAt = now
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	if verifiedNow {
		s.onVerified(ctx, *u)
	}

	token, exp, err := s.tokens.Issue(u.ID, keepLoggedIn)
	if err != nil {
		return nil, err
	}
	s.log.Info("[auth][signin] success", "user_id", u.ID, "method", cred.Kind.String())
	return &SignInResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Authenticate resolves a bearer token to a verified account.
func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if !u.IsVerified {
		return nil, ErrUnauthenticated
	}
	return u, nil
}
