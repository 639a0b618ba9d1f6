// Package auth handles registration and PIN authentication, including the
// failed-attempt lockout policy.
package auth

import (
	"fmt"
	"log"
	"time"

	"azurewallet/internal/models"
	"azurewallet/internal/repositories"
	"azurewallet/internal/utils"
	"azurewallet/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// Lockout policy: the 3rd consecutive failure locks the account for 15
// minutes. The lock expires lazily, on the next verification attempt.
const (
	maxFailedAttempts = 3
	lockoutDuration   = 15 * time.Minute
)

type Service interface {
	// Register creates a new account with a hashed PIN and persists the set.
	Register(username, mobile, pin string) (*models.Account, error)

	// Login verifies the PIN under the lockout policy and returns the
	// account with a signed session token.
	Login(username, pin string) (*models.Account, string, error)

	// AdminLogin checks the shared admin passphrase and returns an
	// admin-role session token.
	AdminLogin(passphrase string) (string, error)
}

type service struct {
	accounts        repositories.AccountRepository
	audit           repositories.AuditLog
	adminPassphrase string
	now             func() time.Time
}

// NewService creates the auth service.
func NewService(accounts repositories.AccountRepository, audit repositories.AuditLog, adminPassphrase string) Service {
	if accounts == nil {
		panic("account repository is required")
	}
	if audit == nil {
		panic("audit log is required")
	}
	return &service{
		accounts:        accounts,
		audit:           audit,
		adminPassphrase: adminPassphrase,
		now:             time.Now,
	}
}

func (s *service) Register(username, mobile, pin string) (*models.Account, error) {
	username = validation.NormalizeUsername(username)
	if err := validation.Username(username); err != nil {
		return nil, err
	}
	if err := validation.Mobile(mobile); err != nil {
		return nil, err
	}
	if err := validation.PIN(pin); err != nil {
		return nil, err
	}

	s.accounts.Lock()
	defer s.accounts.Unlock()

	if _, exists := s.accounts.Get(username); exists {
		return nil, repositories.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash PIN: %w", err)
	}

	acct := models.NewAccount(username, string(hash), mobile)
	s.accounts.Put(acct)
	if err := s.accounts.Save(); err != nil {
		return acct, fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return acct, nil
}

func (s *service) Login(username, pin string) (*models.Account, string, error) {
	username = validation.NormalizeUsername(username)

	s.accounts.Lock()
	defer s.accounts.Unlock()

	acct, ok := s.accounts.Get(username)
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	now := s.now()
	if acct.IsLocked(now) {
		// A locked account rejects immediately, without consuming an attempt.
		return nil, "", &LockedError{MinutesLeft: acct.LockMinutesLeft(now)}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PINHash), []byte(pin)); err != nil {
		s.registerFailedAttempt(acct, now)
		if err := s.accounts.Save(); err != nil {
			log.Printf("saving failed-attempt state: %v", err)
		}
		return nil, "", ErrInvalidCredentials
	}

	acct.FailedAttempts = 0
	acct.LockUntil = time.Time{}
	if err := s.accounts.Save(); err != nil {
		log.Printf("saving login state: %v", err)
	}

	token, err := utils.GenerateSessionToken(acct.Username, models.RoleUser)
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}
	return acct, token, nil
}

func (s *service) registerFailedAttempt(acct *models.Account, now time.Time) {
	acct.FailedAttempts++
	if acct.FailedAttempts >= maxFailedAttempts {
		acct.LockUntil = now.Add(lockoutDuration)
		acct.FailedAttempts = 0
	}
}

func (s *service) AdminLogin(passphrase string) (string, error) {
	if s.adminPassphrase == "" || passphrase != s.adminPassphrase {
		return "", ErrInvalidCredentials
	}
	if err := s.audit.AdminAction("Admin logged in."); err != nil {
		log.Printf("logging admin login: %v", err)
	}
	token, err := utils.GenerateSessionToken("", models.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}
	return token, nil
}
