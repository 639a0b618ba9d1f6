// Package points implements the loyalty points program: accrual on deposits
// and redemption at a fixed 1 point = PHP 1.00.
package points

import (
	"errors"
	"fmt"
	"log"

	"azurewallet/internal/models"
	"azurewallet/internal/repositories"
	"azurewallet/internal/utils"
)

// PointValue is the redemption rate in currency units per point.
const PointValue = 1.0

var (
	ErrInvalidPoints = errors.New("invalid points amount")
	ErrNotPersisted  = errors.New("operation did not persist")
)

// RedeemResult is the account state captured at the moment of redemption,
// while the account lock is still held.
type RedeemResult struct {
	Value   float64
	Balance float64
	Points  int
}

type Service interface {
	// Earn credits points to the account and records them in the points
	// ledger. It runs inside the caller's operation: the caller holds the
	// account lock and persists the set.
	Earn(acct *models.Account, points int, note string)

	// Redeem converts points to balance and persists the account set.
	Redeem(username string, points int) (*RedeemResult, error)
}

type service struct {
	accounts repositories.AccountRepository
	audit    repositories.AuditLog
}

// NewService creates the points service.
func NewService(accounts repositories.AccountRepository, audit repositories.AuditLog) Service {
	if accounts == nil {
		panic("account repository is required")
	}
	if audit == nil {
		panic("audit log is required")
	}
	return &service{accounts: accounts, audit: audit}
}

func (s *service) Earn(acct *models.Account, points int, note string) {
	if points <= 0 {
		return
	}
	acct.Points += points
	if err := s.audit.Points(acct.Username, "earned", points, note); err != nil {
		log.Printf("logging earned points: %v", err)
	}
}

func (s *service) Redeem(username string, pts int) (*RedeemResult, error) {
	s.accounts.Lock()
	defer s.accounts.Unlock()

	acct, ok := s.accounts.Get(username)
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	if pts <= 0 || pts > acct.Points {
		return nil, ErrInvalidPoints
	}

	value := float64(pts) * PointValue
	acct.Points -= pts
	acct.Balance += value

	note := "converted to PHP " + utils.FormatAmount(value)
	if err := s.audit.Points(acct.Username, "redeemed", pts, note); err != nil {
		log.Printf("logging redeemed points: %v", err)
	}

	result := &RedeemResult{Value: value, Balance: acct.Balance, Points: acct.Points}
	if err := s.accounts.Save(); err != nil {
		return result, fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return result, nil
}
