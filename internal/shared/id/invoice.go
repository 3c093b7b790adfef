// Package id generates and validates external identifiers.
package id

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/orris-inc/vipgate/internal/shared/errors"
)

// batchSeparators matches ASCII commas, full-width commas and any whitespace.
var batchSeparators = regexp.MustCompile(`[,，\s]+`)

// NewInvoiceID returns a random v4 UUID in canonical form.
func NewInvoiceID() string {
	return uuid.NewString()
}

// NormalizeInvoiceID validates s as a UUID and returns its canonical lowercase form.
func NormalizeInvoiceID(s string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid invoice id %q: %w", s, err)
	}
	return u.String(), nil
}

// ParseInvoiceBatch splits raw on commas and whitespace and validates every entry.
// One malformed entry rejects the whole batch. Duplicates are kept once, in first-seen order.
func ParseInvoiceBatch(raw string) ([]string, error) {
	parts := batchSeparators.Split(strings.TrimSpace(raw), -1)

	ids := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	var invalid []string
	for _, p := range parts {
		if p == "" {
			continue
		}
		normalized, err := NormalizeInvoiceID(p)
		if err != nil {
			invalid = append(invalid, p)
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		ids = append(ids, normalized)
	}

	if len(invalid) > 0 {
		return nil, errors.NewValidationError("invalid invoice id", invalid...)
	}
	if len(ids) == 0 {
		return nil, errors.NewValidationError("no invoice ids supplied")
	}
	return ids, nil
}

// ParseInvoiceList validates an already split list the same way ParseInvoiceBatch does.
func ParseInvoiceList(items []string) ([]string, error) {
	return ParseInvoiceBatch(strings.Join(items, ","))
}
