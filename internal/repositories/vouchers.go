package repositories

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"azurewallet/internal/models"
)

const vouchersFile = "vouchers.txt"

// voucherDateLayout is the expiry format in vouchers.txt.
const voucherDateLayout = "2006-01-02"

// VoucherRepository owns the active-voucher file. Generation appends rows;
// redemption rewrites the file without the consumed row. Expired rows are
// never purged here, they stay until a redemption attempt sees them.
type VoucherRepository interface {
	// All returns every active voucher in file order.
	All() ([]models.Voucher, error)

	// ForOwner returns the vouchers held by one user, in file order.
	ForOwner(username string) ([]models.Voucher, error)

	// Append adds freshly minted vouchers to the active set.
	Append(vouchers []models.Voucher) error

	// Replace rewrites the active set, used after a redemption consumed a row.
	Replace(vouchers []models.Voucher) error

	// Count returns the number of rows in the active set.
	Count() (int, error)
}

type fileVoucherRepository struct {
	path string
}

// NewVoucherRepository returns the vouchers.txt-backed repository.
func NewVoucherRepository(dir string) VoucherRepository {
	return &fileVoucherRepository{path: filepath.Join(dir, vouchersFile)}
}

func (r *fileVoucherRepository) All() ([]models.Voucher, error) {
	lines, err := readLines(r.path)
	if err != nil {
		return nil, fmt.Errorf("load vouchers: %w", err)
	}
	vouchers := make([]models.Voucher, 0, len(lines))
	for _, line := range lines {
		v, err := decodeVoucher(line)
		if err != nil {
			log.Printf("skipping malformed voucher record: %v", err)
			continue
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, nil
}

func (r *fileVoucherRepository) ForOwner(username string) ([]models.Voucher, error) {
	all, err := r.All()
	if err != nil {
		return nil, err
	}
	var mine []models.Voucher
	for _, v := range all {
		if v.Owner == username {
			mine = append(mine, v)
		}
	}
	return mine, nil
}

func (r *fileVoucherRepository) Append(vouchers []models.Voucher) error {
	for _, v := range vouchers {
		if err := appendLine(r.path, encodeVoucher(v)); err != nil {
			return fmt.Errorf("append voucher: %w", err)
		}
	}
	return nil
}

func (r *fileVoucherRepository) Replace(vouchers []models.Voucher) error {
	lines := make([]string, 0, len(vouchers))
	for _, v := range vouchers {
		lines = append(lines, encodeVoucher(v))
	}
	if err := writeLines(r.path, lines); err != nil {
		return fmt.Errorf("replace vouchers: %w", err)
	}
	return nil
}

func (r *fileVoucherRepository) Count() (int, error) {
	lines, err := readLines(r.path)
	if err != nil {
		return 0, fmt.Errorf("count vouchers: %w", err)
	}
	return len(lines), nil
}

// encodeVoucher renders one voucher row: owner,code,value,expiry
func encodeVoucher(v models.Voucher) string {
	fields := []string{
		v.Owner,
		v.Code,
		strconv.FormatFloat(v.Value, 'f', 2, 64),
		v.Expiry.Format(voucherDateLayout),
	}
	return strings.Join(fields, ",")
}

func decodeVoucher(line string) (models.Voucher, error) {
	p := strings.Split(line, ",")
	if len(p) != 4 {
		return models.Voucher{}, fmt.Errorf("want 4 fields, got %d", len(p))
	}
	value, err := strconv.ParseFloat(p[2], 64)
	if err != nil {
		return models.Voucher{}, fmt.Errorf("value %q: %w", p[2], err)
	}
	expiry, err := time.Parse(voucherDateLayout, p[3])
	if err != nil {
		return models.Voucher{}, fmt.Errorf("expiry %q: %w", p[3], err)
	}
	return models.Voucher{Owner: p[0], Code: p[1], Value: value, Expiry: expiry}, nil
}
