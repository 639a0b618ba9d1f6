package ledger

import (
	"sync"
	"testing"

	"azurewallet/internal/models"
	"azurewallet/internal/repositories"
	"azurewallet/internal/services/points"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (Service, repositories.AccountRepository, repositories.AuditLog) {
	t.Helper()
	dir := t.TempDir()
	accounts, err := repositories.NewAccountRepository(dir)
	require.NoError(t, err)
	audit := repositories.NewAuditLog(dir)
	svc := NewService(accounts, audit, points.NewService(accounts, audit))
	return svc, accounts, audit
}

func addAccount(t *testing.T, accounts repositories.AccountRepository, username string, balance float64) *models.Account {
	t.Helper()
	acct := models.NewAccount(username, "hash", "0917")
	acct.Balance = balance
	accounts.Put(acct)
	return acct
}

func TestDeposit(t *testing.T) {
	svc, accounts, _ := newTestLedger(t)
	acct := addAccount(t, accounts, "juan", 0)

	receipt, err := svc.Deposit("juan", 1000)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, acct.Balance)
	assert.Equal(t, 1000.0, acct.TotalTransacted)
	assert.Equal(t, 1, acct.Points, "1 point per 1,000 deposited")
	assert.Equal(t, 1, receipt.PointsEarned)
	assert.NotEmpty(t, receipt.Reference)
}

func TestDepositRejectsInvalidAmounts(t *testing.T) {
	svc, accounts, _ := newTestLedger(t)
	addAccount(t, accounts, "juan", 0)

	tests := []struct {
		name   string
		amount float64
	}{
		{"zero", 0},
		{"negative", -50},
		{"over basic limit", models.RankBasic.Limits().Deposit + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Deposit("juan", tt.amount)
			var limitErr *LimitExceededError
			require.ErrorAs(t, err, &limitErr)
			assert.Equal(t, models.RankBasic.Limits().Deposit, limitErr.Limit)

			acct, _ := accounts.Get("juan")
			assert.Zero(t, acct.Balance, "rejected deposit must not touch balance")
		})
	}
}

func TestDepositUpgradesRank(t *testing.T) {
	svc, accounts, _ := newTestLedger(t)
	acct := addAccount(t, accounts, "juan", 0)
	acct.TotalTransacted = models.SilverThreshold - 100
	acct.RecomputeRank()
	require.Equal(t, models.RankBasic, acct.Rank)

	_, err := svc.Deposit("juan", 100)
	require.NoError(t, err)
	assert.Equal(t, models.RankSilver, acct.Rank)
}

func TestWithdrawChargesFee(t *testing.T) {
	svc, accounts, audit := newTestLedger(t)
	acct := addAccount(t, accounts, "juan", 100)

	receipt, err := svc.Withdraw("juan", 50)
	require.NoError(t, err)
	assert.Equal(t, 35.0, acct.Balance, "50 + 15 fee debited from 100")
	assert.Equal(t, WithdrawFee, receipt.Fee)

	revenue, err := audit.TotalRevenue()
	require.NoError(t, err)
	assert.InDelta(t, WithdrawFee, revenue, 0.001)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	svc, accounts, audit := newTestLedger(t)
	acct := addAccount(t, accounts, "juan", 40)

	_, err := svc.Withdraw("juan", 50)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 40.0, acct.Balance, "rejected withdrawal must not touch balance")

	revenue, err := audit.TotalRevenue()
	require.NoError(t, err)
	assert.Zero(t, revenue, "no fee charged on a rejected withdrawal")
}

func TestPayOnline(t *testing.T) {
	svc, accounts, _ := newTestLedger(t)
	acct := addAccount(t, accounts, "juan", 500)

	receipt, err := svc.PayOnline("juan", "Lazada", 200)
	require.NoError(t, err)
	assert.Equal(t, 300.0, acct.Balance)
	assert.Zero(t, receipt.Fee, "online payments carry no fee")
	assert.Zero(t, acct.Points, "online payments earn no points")
}

func TestPayOnlineRequiresMerchant(t *testing.T) {
	svc, accounts, _ := newTestLedger(t)
	addAccount(t, accounts, "juan", 500)

	_, err := svc.PayOnline("juan", "  ", 200)
	assert.ErrorIs(t, err, ErrMerchantRequired)
}

func TestTransfer(t *testing.T) {
	svc, accounts, audit := newTestLedger(t)
	sender := addAccount(t, accounts, "juan", 200)
	recipient := addAccount(t, accounts, "maria", 10)

	_, err := svc.Transfer("juan", "maria", 50)
	require.NoError(t, err)
	assert.Equal(t, 150.0, sender.Balance)
	assert.Equal(t, 60.0, recipient.Balance)

	sent, err := audit.TransactionsFor("juan")
	require.NoError(t, err)
	require.Len(t, sent, 2, "sender appears in both linked log lines")
	assert.Contains(t, sent[0], "Sent to maria")
	assert.Contains(t, sent[1], "Received from juan")
}

func TestTransferRejections(t *testing.T) {
	svc, accounts, _ := newTestLedger(t)
	sender := addAccount(t, accounts, "juan", 200)
	addAccount(t, accounts, "maria", 10)

	t.Run("self transfer", func(t *testing.T) {
		_, err := svc.Transfer("juan", "juan", 50)
		assert.ErrorIs(t, err, ErrSelfTransfer)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		_, err := svc.Transfer("juan", "ghost", 50)
		assert.ErrorIs(t, err, repositories.ErrAccountNotFound)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		_, err := svc.Transfer("juan", "maria", 500)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("over send limit", func(t *testing.T) {
		sender.Balance = 100_000
		_, err := svc.Transfer("juan", "maria", models.RankBasic.Limits().Send+1)
		var limitErr *LimitExceededError
		assert.ErrorAs(t, err, &limitErr)
	})

	// None of the rejections moved any money.
	recipient, _ := accounts.Get("maria")
	assert.Equal(t, 10.0, recipient.Balance)
}

func TestBalanceNeverGoesNegative(t *testing.T) {
	svc, accounts, _ := newTestLedger(t)
	acct := addAccount(t, accounts, "juan", 14)

	// Withdrawing anything costs at least the fee, which exceeds the balance.
	_, err := svc.Withdraw("juan", 5)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	_, err = svc.PayOnline("juan", "Shopee", 15)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assert.GreaterOrEqual(t, acct.Balance, 0.0)
}

// Withdrawals arriving on concurrent request goroutines must serialize:
// the balance check and the debit happen under the account lock, so two
// racing withdrawals can never both pass the check and drive the balance
// negative.
func TestConcurrentWithdrawalsSerialize(t *testing.T) {
	svc, accounts, _ := newTestLedger(t)
	addAccount(t, accounts, "juan", 100)

	// Each withdrawal costs 65 (50 + 15 fee); the balance covers one.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Withdraw("juan", 50)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientFunds)
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	acct, _ := accounts.Get("juan")
	assert.Equal(t, 35.0, acct.Balance)
}

func TestConcurrentDepositsAllLand(t *testing.T) {
	svc, accounts, _ := newTestLedger(t)
	addAccount(t, accounts, "juan", 0)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Deposit("juan", 100)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	acct, _ := accounts.Get("juan")
	assert.Equal(t, float64(n*100), acct.Balance)
	assert.Equal(t, float64(n*100), acct.TotalTransacted)
}
