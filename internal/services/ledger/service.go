// Package ledger orchestrates the balance-affecting operations: deposit,
// withdraw, online payment and user-to-user transfer. Every operation
// validates before mutating, so a rejection never leaves a partial change,
// and persists the full account set on success.
package ledger

import (
	"fmt"
	"log"
	"strings"

	"azurewallet/internal/repositories"
	"azurewallet/internal/services/points"

	"github.com/google/uuid"
)

type Service interface {
	// Deposit credits the account, grows the lifetime counter, refreshes
	// the rank and awards deposit points.
	Deposit(username string, amount float64) (*Receipt, error)

	// Withdraw debits the amount plus the fixed fee and records the fee as
	// system revenue.
	Withdraw(username string, amount float64) (*Receipt, error)

	// PayOnline debits a merchant payment. No fee, no points.
	PayOnline(username, merchant string, amount float64) (*Receipt, error)

	// Transfer moves money to another user: both mutations apply together
	// and are saved once, with linked sent/received log lines.
	Transfer(sender, recipient string, amount float64) (*Receipt, error)
}

type service struct {
	accounts repositories.AccountRepository
	audit    repositories.AuditLog
	points   points.Service
}

// NewService creates the ledger service.
func NewService(accounts repositories.AccountRepository, audit repositories.AuditLog, pointsSvc points.Service) Service {
	if accounts == nil {
		panic("account repository is required")
	}
	if audit == nil {
		panic("audit log is required")
	}
	if pointsSvc == nil {
		panic("points service is required")
	}
	return &service{accounts: accounts, audit: audit, points: pointsSvc}
}

func (s *service) Deposit(username string, amount float64) (*Receipt, error) {
	s.accounts.Lock()
	defer s.accounts.Unlock()

	acct, ok := s.accounts.Get(username)
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}

	limit := acct.Limits().Deposit
	if amount <= 0 || amount > limit {
		return nil, &LimitExceededError{Limit: limit}
	}

	acct.Balance += amount
	acct.TotalTransacted += amount
	acct.RecomputeRank()

	s.logTransaction(acct.Username, "Deposit", amount)

	earned := int(amount / PointsPerAmount)
	if earned > 0 {
		s.points.Earn(acct, earned, "from deposit")
	}

	receipt := &Receipt{
		Reference:    uuid.NewString(),
		Type:         "deposit",
		Amount:       amount,
		Balance:      acct.Balance,
		PointsEarned: earned,
	}
	return receipt, s.save()
}

func (s *service) Withdraw(username string, amount float64) (*Receipt, error) {
	s.accounts.Lock()
	defer s.accounts.Unlock()

	acct, ok := s.accounts.Get(username)
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}

	limit := acct.Limits().Withdraw
	if amount <= 0 || amount > limit {
		return nil, &LimitExceededError{Limit: limit}
	}

	total := amount + WithdrawFee
	if total > acct.Balance {
		return nil, ErrInsufficientFunds
	}

	acct.Balance -= total
	s.logTransaction(acct.Username, "Withdraw", amount)
	if err := s.audit.Revenue(WithdrawFee); err != nil {
		log.Printf("logging withdrawal fee: %v", err)
	}

	receipt := &Receipt{
		Reference: uuid.NewString(),
		Type:      "withdraw",
		Amount:    amount,
		Fee:       WithdrawFee,
		Balance:   acct.Balance,
	}
	return receipt, s.save()
}

func (s *service) PayOnline(username, merchant string, amount float64) (*Receipt, error) {
	merchant = strings.TrimSpace(merchant)
	if merchant == "" {
		return nil, ErrMerchantRequired
	}

	s.accounts.Lock()
	defer s.accounts.Unlock()

	acct, ok := s.accounts.Get(username)
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}

	limit := acct.Limits().Send
	if amount <= 0 || amount > limit {
		return nil, &LimitExceededError{Limit: limit}
	}
	if amount > acct.Balance {
		return nil, ErrInsufficientFunds
	}

	acct.Balance -= amount
	s.logTransaction(acct.Username, "Paid to "+merchant, amount)

	receipt := &Receipt{
		Reference: uuid.NewString(),
		Type:      "payment",
		Amount:    amount,
		Balance:   acct.Balance,
	}
	return receipt, s.save()
}

func (s *service) Transfer(sender, recipient string, amount float64) (*Receipt, error) {
	recipient = strings.ToLower(strings.TrimSpace(recipient))

	s.accounts.Lock()
	defer s.accounts.Unlock()

	from, ok := s.accounts.Get(sender)
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	if recipient == from.Username {
		return nil, ErrSelfTransfer
	}
	to, ok := s.accounts.Get(recipient)
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}

	limit := from.Limits().Send
	if amount <= 0 || amount > limit {
		return nil, &LimitExceededError{Limit: limit}
	}
	if amount > from.Balance {
		return nil, ErrInsufficientFunds
	}

	// All checks passed: debit and credit together, then one save.
	from.Balance -= amount
	to.Balance += amount

	s.logTransaction(from.Username, "Sent to "+to.Username, amount)
	s.logTransaction(to.Username, "Received from "+from.Username, amount)

	receipt := &Receipt{
		Reference: uuid.NewString(),
		Type:      "transfer",
		Amount:    amount,
		Balance:   from.Balance,
	}
	return receipt, s.save()
}

func (s *service) logTransaction(username, label string, amount float64) {
	if err := s.audit.Transaction(username, label, amount); err != nil {
		log.Printf("logging transaction for %s: %v", username, err)
	}
}

// save persists the account set. A failure is reported as a durability
// warning: the in-memory mutation stands and is not rolled back.
func (s *service) save() error {
	if err := s.accounts.Save(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return nil
}
