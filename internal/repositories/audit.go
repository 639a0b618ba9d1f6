package repositories

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"azurewallet/internal/utils"
)

const (
	transactionsFile = "transactions.txt"
	pointsLogFile    = "points_log.txt"
	interestLogFile  = "interest_log.txt"
	voucherLogFile   = "voucher_log.txt"
	revenueFile      = "system_revenue.txt"
	schedulerLogFile = "scheduler_log.txt"
	adminLogFile     = "admin_log.txt"
)

const logTimeLayout = "2006-01-02T15:04:05"

// AuditLog appends the free-text audit trails and answers the aggregate
// reads derived from them. Consumers filter lines by substring, not by
// structured parsing; the one exception is the revenue total, which sums
// the "PHP <amount>" suffix of each revenue line.
type AuditLog interface {
	Transaction(username, label string, amount float64) error
	Points(username, action string, points int, note string) error
	Interest(username string, amount float64) error
	VoucherRedemption(username, code string, value float64) error
	Revenue(fee float64) error
	SchedulerRun() error
	AdminAction(action string) error

	// TotalRevenue recomputes the fee aggregate by scanning the revenue log.
	TotalRevenue() (float64, error)

	// TransactionsFor returns the transaction lines mentioning username.
	TransactionsFor(username string) ([]string, error)

	// LastSchedulerRun returns the newest scheduler log line, or "N/A".
	LastSchedulerRun() (string, error)

	// AdminLog returns the full admin activity trail.
	AdminLog() ([]string, error)
}

type fileAuditLog struct {
	dir string
}

// NewAuditLog returns the audit-trail writer rooted at dir.
func NewAuditLog(dir string) AuditLog {
	return &fileAuditLog{dir: dir}
}

func (l *fileAuditLog) stamp() string {
	return time.Now().Format(logTimeLayout)
}

func (l *fileAuditLog) Transaction(username, label string, amount float64) error {
	line := fmt.Sprintf("%s - %s: %s - PHP %s", l.stamp(), username, label, utils.FormatAmount(amount))
	return appendLine(filepath.Join(l.dir, transactionsFile), line)
}

func (l *fileAuditLog) Points(username, action string, points int, note string) error {
	line := fmt.Sprintf("%s - %s %s %d points (%s)", l.stamp(), username, action, points, note)
	return appendLine(filepath.Join(l.dir, pointsLogFile), line)
}

func (l *fileAuditLog) Interest(username string, amount float64) error {
	line := fmt.Sprintf("%s - %s: +PHP %s", l.stamp(), username, utils.FormatAmount(amount))
	return appendLine(filepath.Join(l.dir, interestLogFile), line)
}

func (l *fileAuditLog) VoucherRedemption(username, code string, value float64) error {
	line := fmt.Sprintf("%s - %s redeemed %s (PHP %s)", l.stamp(), username, code, utils.FormatAmount(value))
	return appendLine(filepath.Join(l.dir, voucherLogFile), line)
}

func (l *fileAuditLog) Revenue(fee float64) error {
	line := fmt.Sprintf("%s - +PHP %s", l.stamp(), utils.FormatAmount(fee))
	return appendLine(filepath.Join(l.dir, revenueFile), line)
}

func (l *fileAuditLog) SchedulerRun() error {
	line := fmt.Sprintf("%s - Scheduler executed", l.stamp())
	return appendLine(filepath.Join(l.dir, schedulerLogFile), line)
}

func (l *fileAuditLog) AdminAction(action string) error {
	line := fmt.Sprintf("%s - %s", l.stamp(), action)
	return appendLine(filepath.Join(l.dir, adminLogFile), line)
}

func (l *fileAuditLog) TotalRevenue() (float64, error) {
	lines, err := readLines(filepath.Join(l.dir, revenueFile))
	if err != nil {
		return 0, fmt.Errorf("read revenue log: %w", err)
	}
	var total float64
	for _, line := range lines {
		idx := strings.Index(line, "PHP ")
		if idx < 0 {
			continue
		}
		raw := strings.ReplaceAll(strings.TrimSpace(line[idx+len("PHP "):]), ",", "")
		amt, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		total += amt
	}
	return total, nil
}

func (l *fileAuditLog) TransactionsFor(username string) ([]string, error) {
	lines, err := readLines(filepath.Join(l.dir, transactionsFile))
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	var matched []string
	for _, line := range lines {
		if strings.Contains(line, username) {
			matched = append(matched, line)
		}
	}
	return matched, nil
}

func (l *fileAuditLog) LastSchedulerRun() (string, error) {
	lines, err := readLines(filepath.Join(l.dir, schedulerLogFile))
	if err != nil {
		return "", fmt.Errorf("read scheduler log: %w", err)
	}
	if len(lines) == 0 {
		return "N/A", nil
	}
	return lines[len(lines)-1], nil
}

func (l *fileAuditLog) AdminLog() ([]string, error) {
	lines, err := readLines(filepath.Join(l.dir, adminLogFile))
	if err != nil {
		return nil, fmt.Errorf("read admin log: %w", err)
	}
	return lines, nil
}
