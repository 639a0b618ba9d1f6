package repositories

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"azurewallet/internal/models"
)

const accountsFile = "users.txt"

// AccountRepository is the narrow interface the services mutate accounts
// through: an in-memory account set with a whole-set save.
//
// The repository owns the account-state lock. Every operation that reads
// or mutates accounts, including fields of the returned *models.Account
// values, holds it end-to-end so one operation completes before the next
// begins. Fiber serves requests from concurrent goroutines and the cron
// runner ticks from its own, so an unlocked balance check could interleave
// with another operation's debit.
type AccountRepository interface {
	// Lock acquires the account-state lock.
	Lock()

	// Unlock releases the account-state lock.
	Unlock()

	// Get retrieves an account by its lowercase username.
	Get(username string) (*models.Account, bool)

	// All returns every account, ordered by username.
	All() []*models.Account

	// Put adds or replaces an account in the set.
	Put(acct *models.Account)

	// Delete removes an account permanently. Returns false when absent.
	Delete(username string) bool

	// DeleteAll empties the account set.
	DeleteAll()

	// Count returns the number of registered accounts.
	Count() int

	// Save persists the full in-memory snapshot.
	Save() error
}

type fileAccountRepository struct {
	mu       sync.Mutex
	path     string
	accounts map[string]*models.Account
}

// NewAccountRepository loads the account set from users.txt under dir.
// Malformed records are skipped with a log line rather than failing the
// whole load.
func NewAccountRepository(dir string) (AccountRepository, error) {
	repo := &fileAccountRepository{
		path:     filepath.Join(dir, accountsFile),
		accounts: make(map[string]*models.Account),
	}

	lines, err := readLines(repo.path)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	for _, line := range lines {
		acct, err := decodeAccount(line)
		if err != nil {
			log.Printf("skipping malformed account record: %v", err)
			continue
		}
		repo.accounts[acct.Username] = acct
	}
	return repo, nil
}

func (r *fileAccountRepository) Lock() { r.mu.Lock() }

func (r *fileAccountRepository) Unlock() { r.mu.Unlock() }

func (r *fileAccountRepository) Get(username string) (*models.Account, bool) {
	acct, ok := r.accounts[username]
	return acct, ok
}

func (r *fileAccountRepository) All() []*models.Account {
	all := make([]*models.Account, 0, len(r.accounts))
	for _, acct := range r.accounts {
		all = append(all, acct)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return all
}

func (r *fileAccountRepository) Put(acct *models.Account) {
	r.accounts[acct.Username] = acct
}

func (r *fileAccountRepository) Delete(username string) bool {
	if _, ok := r.accounts[username]; !ok {
		return false
	}
	delete(r.accounts, username)
	return true
}

func (r *fileAccountRepository) DeleteAll() {
	r.accounts = make(map[string]*models.Account)
}

func (r *fileAccountRepository) Count() int {
	return len(r.accounts)
}

func (r *fileAccountRepository) Save() error {
	lines := make([]string, 0, len(r.accounts))
	for _, acct := range r.All() {
		lines = append(lines, encodeAccount(acct))
	}
	if err := writeLines(r.path, lines); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

// encodeAccount renders one persisted account record:
// username,pinHash,mobile,balance,failedAttempts,lockUntilEpoch,rank,points,totalTransacted
func encodeAccount(a *models.Account) string {
	lockEpoch := int64(0)
	if !a.LockUntil.IsZero() {
		lockEpoch = a.LockUntil.Unix()
	}
	fields := []string{
		a.Username,
		a.PINHash,
		a.Mobile,
		strconv.FormatFloat(a.Balance, 'f', 2, 64),
		strconv.Itoa(a.FailedAttempts),
		strconv.FormatInt(lockEpoch, 10),
		a.Rank.String(),
		strconv.Itoa(a.Points),
		strconv.FormatFloat(a.TotalTransacted, 'f', 2, 64),
	}
	return strings.Join(fields, ",")
}

func decodeAccount(line string) (*models.Account, error) {
	p := strings.Split(line, ",")
	if len(p) != 9 {
		return nil, fmt.Errorf("want 9 fields, got %d", len(p))
	}
	balance, err := strconv.ParseFloat(p[3], 64)
	if err != nil {
		return nil, fmt.Errorf("balance %q: %w", p[3], err)
	}
	attempts, err := strconv.Atoi(p[4])
	if err != nil {
		return nil, fmt.Errorf("failed attempts %q: %w", p[4], err)
	}
	lockEpoch, err := strconv.ParseInt(p[5], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("lock epoch %q: %w", p[5], err)
	}
	points, err := strconv.Atoi(p[7])
	if err != nil {
		return nil, fmt.Errorf("points %q: %w", p[7], err)
	}
	total, err := strconv.ParseFloat(p[8], 64)
	if err != nil {
		return nil, fmt.Errorf("total transacted %q: %w", p[8], err)
	}

	acct := &models.Account{
		Username:        p[0],
		PINHash:         p[1],
		Mobile:          p[2],
		Balance:         balance,
		FailedAttempts:  attempts,
		Rank:            models.ParseRank(p[6]),
		Points:          points,
		TotalTransacted: total,
	}
	if lockEpoch > 0 {
		acct.LockUntil = time.Unix(lockEpoch, 0)
	}
	return acct, nil
}
