package auth

import (
	"errors"
	"testing"
	"time"

	"azurewallet/internal/repositories"
	"azurewallet/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*service, repositories.AccountRepository) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dir := t.TempDir()
	accounts, err := repositories.NewAccountRepository(dir)
	require.NoError(t, err)
	audit := repositories.NewAuditLog(dir)

	svc := NewService(accounts, audit, "admin123").(*service)
	return svc, accounts
}

func TestRegister(t *testing.T) {
	svc, accounts := newTestService(t)

	acct, err := svc.Register("Maria ", "09171234567", "1234")
	require.NoError(t, err)
	assert.Equal(t, "maria", acct.Username, "username is normalized to lowercase")
	assert.Zero(t, acct.Balance)
	assert.Zero(t, acct.Points)
	assert.NotEqual(t, "1234", acct.PINHash, "PIN must never be stored in plaintext")

	_, ok := accounts.Get("maria")
	assert.True(t, ok)

	_, err = svc.Register("maria", "09170000000", "5678")
	assert.ErrorIs(t, err, repositories.ErrUsernameTaken)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name     string
		username string
		mobile   string
		pin      string
	}{
		{"empty username", "", "0917", "1234"},
		{"comma in username", "ju,an", "0917", "1234"},
		{"empty mobile", "juan", "", "1234"},
		{"short PIN", "juan", "0917", "123"},
		{"long PIN", "juan", "0917", "12345"},
		{"non-digit PIN", "juan", "0917", "12a4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.username, tt.mobile, tt.pin)
			assert.Error(t, err)
		})
	}
}

// A newline in a username would split its persisted record, letting a
// registration plant a second record that overwrites another user's PIN
// hash on reload. Registration must reject it outright.
func TestRegisterRejectsRecordForgery(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	dir := t.TempDir()

	accounts, err := repositories.NewAccountRepository(dir)
	require.NoError(t, err)
	svc := NewService(accounts, repositories.NewAuditLog(dir), "admin123").(*service)

	_, err = svc.Register("bob", "09171234567", "1111")
	require.NoError(t, err)

	_, err = svc.Register("eve\nbob", "09170000000", "9999")
	assert.ErrorIs(t, err, validation.ErrUsernameFormat)

	// Reload from disk: only bob exists and only bob's PIN opens the account.
	reloaded, err := repositories.NewAccountRepository(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Count())

	svc2 := NewService(reloaded, repositories.NewAuditLog(dir), "admin123").(*service)
	_, _, err = svc2.Login("bob", "9999")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, token, err := svc2.Login("bob", "1111")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register("juan", "0917", "1234")
	require.NoError(t, err)

	acct, token, err := svc.Login("juan", "1234")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Zero(t, acct.FailedAttempts)
}

func TestLockoutAfterThreeFailures(t *testing.T) {
	svc, accounts := newTestService(t)
	_, err := svc.Register("juan", "0917", "1234")
	require.NoError(t, err)

	now := time.Now()
	svc.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_, _, err := svc.Login("juan", "0000")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	acct, _ := accounts.Get("juan")
	assert.Equal(t, 2, acct.FailedAttempts)
	assert.False(t, acct.IsLocked(now))

	// Third consecutive failure locks and resets the counter.
	_, _, err = svc.Login("juan", "0000")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, acct.IsLocked(now))
	assert.Zero(t, acct.FailedAttempts)

	// A locked account rejects even the correct PIN without consuming an attempt.
	lockUntil := acct.LockUntil
	_, _, err = svc.Login("juan", "1234")
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
	assert.GreaterOrEqual(t, locked.MinutesLeft, 1)
	assert.Equal(t, lockUntil, acct.LockUntil)
	assert.Zero(t, acct.FailedAttempts)

	// Once the window passes the lock clears lazily and login succeeds.
	svc.now = func() time.Time { return now.Add(16 * time.Minute) }
	_, token, err := svc.Login("juan", "1234")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, acct.LockUntil.IsZero())
	assert.Zero(t, acct.FailedAttempts)
}

func TestSuccessfulLoginResetsAttempts(t *testing.T) {
	svc, accounts := newTestService(t)
	_, err := svc.Register("juan", "0917", "1234")
	require.NoError(t, err)

	_, _, err = svc.Login("juan", "0000")
	assert.Error(t, err)

	_, _, err = svc.Login("juan", "1234")
	require.NoError(t, err)

	acct, _ := accounts.Get("juan")
	assert.Zero(t, acct.FailedAttempts)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	_, _, err := svc.Login("ghost", "1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLogin(t *testing.T) {
	svc, _ := newTestService(t)

	token, err := svc.AdminLogin("admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.AdminLogin("wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}
