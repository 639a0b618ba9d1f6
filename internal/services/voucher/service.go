// Package voucher issues and redeems value vouchers. The monthly sweep
// mints one per-user voucher with a rank-scaled value; on fixed calendar
// holidays every user gets a voucher under one shared code. Vouchers expire
// one calendar month after issuance and stay in the active file until a
// redemption attempt observes them as expired.
package voucher

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"azurewallet/internal/models"
	"azurewallet/internal/repositories"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeSuffixLen = 6

type valueRange struct {
	min, max float64
}

var monthlyRanges = map[models.Rank]valueRange{
	models.RankBasic:    {1, 20},
	models.RankSilver:   {50, 100},
	models.RankGold:     {100, 250},
	models.RankPlatinum: {250, 500},
}

var holidayRanges = map[models.Rank]valueRange{
	models.RankBasic:    {50, 100},
	models.RankSilver:   {200, 400},
	models.RankGold:     {400, 700},
	models.RankPlatinum: {800, 1000},
}

type Service interface {
	// GenerateMonthly mints one voucher per account, rank-scaled value,
	// expiring one month out. Returns the number minted.
	GenerateMonthly() (int, error)

	// GenerateHoliday mints one shared-code voucher per account when today
	// is a calendar holiday; otherwise it is a no-op returning 0.
	GenerateHoliday(today time.Time) (int, error)

	// Redeem consumes the first active voucher matching (owner, code) and
	// credits its value. An expired match is reported and left in place.
	Redeem(username, code string) (float64, error)

	// ListFor returns the active vouchers held by one user.
	ListFor(username string) ([]models.Voucher, error)

	// Count returns the size of the active voucher set.
	Count() (int, error)
}

type service struct {
	accounts repositories.AccountRepository
	vouchers repositories.VoucherRepository
	audit    repositories.AuditLog
	now      func() time.Time
}

// NewService creates the voucher service.
func NewService(accounts repositories.AccountRepository, vouchers repositories.VoucherRepository, audit repositories.AuditLog) Service {
	if accounts == nil {
		panic("account repository is required")
	}
	if vouchers == nil {
		panic("voucher repository is required")
	}
	if audit == nil {
		panic("audit log is required")
	}
	return &service{
		accounts: accounts,
		vouchers: vouchers,
		audit:    audit,
		now:      time.Now,
	}
}

func (s *service) GenerateMonthly() (int, error) {
	s.accounts.Lock()
	defer s.accounts.Unlock()

	expiry := s.now().AddDate(0, 1, 0)
	var minted []models.Voucher
	for _, acct := range s.accounts.All() {
		r := monthlyRanges[acct.Rank]
		minted = append(minted, models.Voucher{
			Owner:  acct.Username,
			Code:   generateCode(acct.Username),
			Value:  randomValue(r),
			Expiry: expiry,
		})
	}
	if len(minted) == 0 {
		return 0, nil
	}
	if err := s.vouchers.Append(minted); err != nil {
		return 0, fmt.Errorf("generate monthly vouchers: %w", err)
	}
	return len(minted), nil
}

func (s *service) GenerateHoliday(today time.Time) (int, error) {
	code, ok := holidayCode(today)
	if !ok {
		return 0, nil
	}

	s.accounts.Lock()
	defer s.accounts.Unlock()

	expiry := today.AddDate(0, 1, 0)
	var minted []models.Voucher
	for _, acct := range s.accounts.All() {
		r := holidayRanges[acct.Rank]
		minted = append(minted, models.Voucher{
			Owner:  acct.Username,
			Code:   code,
			Value:  randomValue(r),
			Expiry: expiry,
		})
	}
	if len(minted) == 0 {
		return 0, nil
	}
	if err := s.vouchers.Append(minted); err != nil {
		return 0, fmt.Errorf("generate holiday vouchers: %w", err)
	}
	return len(minted), nil
}

func (s *service) Redeem(username, code string) (float64, error) {
	s.accounts.Lock()
	defer s.accounts.Unlock()

	acct, ok := s.accounts.Get(username)
	if !ok {
		return 0, repositories.ErrAccountNotFound
	}

	all, err := s.vouchers.All()
	if err != nil {
		return 0, err
	}

	today := s.now()
	for i, v := range all {
		if v.Owner != username || v.Code != code {
			continue
		}
		if v.Expired(today) {
			// Expired vouchers are reported but never purged.
			return 0, ErrVoucherExpired
		}

		acct.Balance += v.Value
		remaining := append(append([]models.Voucher{}, all[:i]...), all[i+1:]...)
		if err := s.vouchers.Replace(remaining); err != nil {
			return v.Value, fmt.Errorf("%w: %v", ErrNotPersisted, err)
		}
		if err := s.audit.VoucherRedemption(username, code, v.Value); err != nil {
			log.Printf("logging voucher redemption: %v", err)
		}
		if err := s.accounts.Save(); err != nil {
			return v.Value, fmt.Errorf("%w: %v", ErrNotPersisted, err)
		}
		return v.Value, nil
	}
	return 0, ErrVoucherNotFound
}

func (s *service) ListFor(username string) ([]models.Voucher, error) {
	return s.vouchers.ForOwner(username)
}

func (s *service) Count() (int, error) {
	return s.vouchers.Count()
}

func randomValue(r valueRange) float64 {
	return rand.Float64()*(r.max-r.min) + r.min
}

// generateCode mints a per-user voucher code: the first two letters of the
// username uppercased plus six random alphanumerics. The prefix is taken
// by rune so a multibyte username cannot write a torn byte sequence into
// the voucher file.
func generateCode(username string) string {
	prefix := []rune(strings.ToUpper(username) + "XX")[:2]
	var b strings.Builder
	b.WriteString(string(prefix))
	for i := 0; i < codeSuffixLen; i++ {
		b.WriteByte(codeCharset[rand.Intn(len(codeCharset))])
	}
	return b.String()
}
