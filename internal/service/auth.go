package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/pkg/acctoken"
	"github.com/rapirent/smart-campus/internal/repository"
)

var (
	ErrUserEmailExists   = repository.ErrUserEmailExists
	ErrUserNotFound      = repository.ErrUserNotFound
	ErrWrongPassword     = errors.New("wrong password")
	ErrAccountNotActive  = errors.New("account not activated")
	ErrAlreadyActivated  = errors.New("account already activated")
	ErrActivationInvalid = acctoken.ErrTokenInvalid
	ErrActivationExpired = acctoken.ErrTokenExpired
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
}

type AuthRoleRepository interface {
	FindRoleByName(ctx context.Context, name string) (domain.Role, error)
}

type Mailer interface {
	Send(to, subject, body string) error
}

type AuthService struct {
	repo     AuthUserRepository
	roleRepo AuthRoleRepository
	tokens   *acctoken.Generator
	mailer   Mailer
	baseURL  string
	now      func() time.Time
}

func NewAuthService(repo AuthUserRepository, roleRepo AuthRoleRepository, tokens *acctoken.Generator, mailer Mailer, baseURL string) *AuthService {
	return &AuthService{
		repo:     repo,
		roleRepo: roleRepo,
		tokens:   tokens,
		mailer:   mailer,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

// Signup registers an app user with the default role. The account stays
// unusable until the mailed activation link is followed; mail delivery
// failures are logged, never surfaced to the caller.
func (s *AuthService) Signup(ctx context.Context, email, password, nickname string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	role, err := s.roleRepo.FindRoleByName(ctx, "User")
	if err != nil {
		return domain.User{}, fmt.Errorf("s.roleRepo.FindRoleByName -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.User{
		Email:    email,
		Password: string(hash),
		Nickname: nickname,
		Role:     &role,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.sendActivationMail(created)

	return created, nil
}

// Activate confirms the account the token was issued for.
func (s *AuthService) Activate(ctx context.Context, userID uint, token string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if user.EmailConfirmed {
		return ErrAlreadyActivated
	}

	err = s.tokens.Verify(acctoken.PurposeActivate, user.ID, user.Password, user.LastLogin, token, s.now())
	if err != nil {
		return err
	}

	user.EmailConfirmed = true
	if _, err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

func (s *AuthService) ResendActivation(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if user.EmailConfirmed {
		return ErrAlreadyActivated
	}

	s.sendActivationMail(user)

	return nil
}

// Login verifies credentials and stamps LastLogin, which invalidates any
// activation or reset token issued before this moment.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	if !user.EmailConfirmed {
		return domain.User{}, ErrAccountNotActive
	}

	now := s.now()
	user.LastLogin = &now
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// RequestPasswordReset mails a reset link. Fire and forget, like
// activation.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	token := s.tokens.Generate(acctoken.PurposeResetPassword, user.ID, user.Password, user.LastLogin, s.now())
	link := fmt.Sprintf("%v/reset_password/%v/%v", s.baseURL, user.ID, token)

	go func() {
		err := s.mailer.Send(user.Email, "Reset your password", "Follow this link to reset your password: "+link)
		if err != nil {
			zap.L().Error("failed to send password reset mail",
				zap.String("email", user.Email),
				zap.Error(err))
		}
	}()

	return nil
}

// ConfirmPasswordReset validates the token against the user's current
// state and sets the new password. Because the token is derived from the
// old password hash, it stops verifying the moment the password changes.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, userID uint, token, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	err = s.tokens.Verify(acctoken.PurposeResetPassword, user.ID, user.Password, user.LastLogin, token, s.now())
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hash)
	if _, err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

func (s *AuthService) sendActivationMail(user domain.User) {
	token := s.tokens.Generate(acctoken.PurposeActivate, user.ID, user.Password, user.LastLogin, s.now())
	link := fmt.Sprintf("%v/activate/%v/%v", s.baseURL, user.ID, token)

	go func() {
		err := s.mailer.Send(user.Email, "Activate your account", "Follow this link to activate your account: "+link)
		if err != nil {
			zap.L().Error("failed to send activation mail",
				zap.String("email", user.Email),
				zap.Error(err))
		}
	}()
}
