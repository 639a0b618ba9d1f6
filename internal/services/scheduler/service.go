// Package scheduler runs the once-per-calendar-day maintenance pass:
// monthly interest for every account, then voucher generation. The guard is
// the last run date, initialized to yesterday so the first tick after
// startup always fires; repeat ticks on the same day are no-ops. Startup,
// the in-process cron job and the manual admin trigger all go through the
// same Tick.
package scheduler

import (
	"errors"
	"fmt"
	"log"
	"time"

	"azurewallet/internal/repositories"
	"azurewallet/internal/services/voucher"
	"azurewallet/internal/utils"
)

// CronSpec is the daily schedule for the in-process cron runner.
const CronSpec = "@midnight"

type Service interface {
	// Tick runs the daily maintenance if it has not already run today.
	// Returns false when the day's run already happened.
	Tick(today time.Time) (bool, error)

	// LastRun returns the newest scheduler log line for the admin summary.
	LastRun() (string, error)
}

type service struct {
	accounts    repositories.AccountRepository
	audit       repositories.AuditLog
	vouchers    voucher.Service
	lastRunDate time.Time
}

// NewService creates the scheduler with its guard primed to yesterday.
func NewService(accounts repositories.AccountRepository, audit repositories.AuditLog, voucherSvc voucher.Service) Service {
	if accounts == nil {
		panic("account repository is required")
	}
	if audit == nil {
		panic("audit log is required")
	}
	if voucherSvc == nil {
		panic("voucher service is required")
	}
	return &service{
		accounts:    accounts,
		audit:       audit,
		vouchers:    voucherSvc,
		lastRunDate: time.Now().AddDate(0, 0, -1),
	}
}

func (s *service) Tick(today time.Time) (bool, error) {
	s.accounts.Lock()
	if sameDay(today, s.lastRunDate) {
		s.accounts.Unlock()
		return false, nil
	}
	log.Println("running background scheduler tasks")

	// The day is marked as run before anything can fail. Interest mutates
	// in-memory balances, so a failed sweep or save must surface as a
	// durability warning, never as a same-day retry that credits interest
	// twice.
	s.lastRunDate = today

	var errs []error
	s.applyMonthlyInterest()
	if err := s.accounts.Save(); err != nil {
		errs = append(errs, fmt.Errorf("scheduler save: %w", err))
	}
	s.accounts.Unlock()

	// The voucher sweeps take the account lock themselves.
	if _, err := s.vouchers.GenerateMonthly(); err != nil {
		errs = append(errs, fmt.Errorf("scheduler voucher sweep: %w", err))
	}
	if n, err := s.vouchers.GenerateHoliday(today); err != nil {
		errs = append(errs, fmt.Errorf("scheduler holiday sweep: %w", err))
	} else if n > 0 {
		log.Printf("holiday vouchers generated for %d users", n)
	}
	if err := s.audit.SchedulerRun(); err != nil {
		log.Printf("logging scheduler run: %v", err)
	}
	return true, errors.Join(errs...)
}

func (s *service) applyMonthlyInterest() {
	for _, acct := range s.accounts.All() {
		delta := utils.RoundCents(acct.Balance * acct.Rank.MonthlyInterestRate())
		if delta <= 0 {
			continue
		}
		acct.Balance += delta
		if err := s.audit.Interest(acct.Username, delta); err != nil {
			log.Printf("logging interest for %s: %v", acct.Username, err)
		}
	}
}

func (s *service) LastRun() (string, error) {
	return s.audit.LastSchedulerRun()
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
