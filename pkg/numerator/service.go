// Package numerator provides document auto-numbering.
//
// Two strategies are supported:
//   - Random: PREFIX-YYYYMMDD-XXXXXXXX with a random hex suffix. Collision
//     probability is negligible but every candidate is still re-checked
//     against the uniqueness constraint before use. Used for invoices and
//     returns.
//   - Sequential: gapless counter backed by sys_sequences with
//     UPSERT ... RETURNING. Used for catalog codes.
package numerator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "INV", "RET")
	Prefix string

	// SuffixLen is the random suffix length in hex characters (default 8)
	SuffixLen int

	// DateFormat stamps the generation date into the number (default 20060102)
	DateFormat string

	// PadWidth is the minimum width for sequential numbers (default 5)
	PadWidth int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:     prefix,
		SuffixLen:  8,
		DateFormat: "20060102",
		PadWidth:   5,
	}
}

// maxRandomAttempts bounds collision retries; exceeding it indicates a
// broken random source rather than genuine collisions.
const maxRandomAttempts = 5

// Service provides document numbering functionality.
type Service struct {
	querier Querier
}

// New creates a new numerator service.
func New(querier Querier) *Service {
	return &Service{querier: querier}
}

// NextRandom generates a date-stamped number with a random suffix, e.g.
// INV-20260901-3F8A21BC. The candidate is verified against the given
// table/column before being handed out; the caller's INSERT still runs
// under the unique constraint, so a racing duplicate fails the transaction
// rather than producing two documents with one number.
func (s *Service) NextRandom(ctx context.Context, cfg Config, table, column string, now time.Time) (string, error) {
	if s == nil || s.querier == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	for attempt := 0; attempt < maxRandomAttempts; attempt++ {
		candidate := s.formatRandom(cfg, now)

		var exists bool
		query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)", table, column)
		if err := s.querier.QueryRow(ctx, query, candidate).Scan(&exists); err != nil {
			return "", fmt.Errorf("check number uniqueness: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("could not generate unique %s number after %d attempts", cfg.Prefix, maxRandomAttempts)
}

// NextSequential fetches the next gapless number using UPSERT + RETURNING.
func (s *Service) NextSequential(ctx context.Context, cfg Config, now time.Time) (string, error) {
	if s == nil || s.querier == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	key := fmt.Sprintf("%s_%s", cfg.Prefix, now.Format("2006"))

	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("sequential next: %w", err)
	}

	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}
	return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, now.Format("2006"), padWidth, num), nil
}

// formatRandom builds a candidate number from the config, date and a fresh
// random suffix.
func (s *Service) formatRandom(cfg Config, now time.Time) string {
	suffixLen := cfg.SuffixLen
	if suffixLen <= 0 {
		suffixLen = 8
	}

	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if suffixLen < len(suffix) {
		suffix = suffix[:suffixLen]
	}

	dateFormat := cfg.DateFormat
	if dateFormat == "" {
		dateFormat = "20060102"
	}

	return fmt.Sprintf("%s-%s-%s", cfg.Prefix, now.Format(dateFormat), suffix)
}
