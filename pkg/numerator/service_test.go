package numerator

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	boolVal bool
	intVal  int64
	err     error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		switch ptr := dest[0].(type) {
		case *bool:
			*ptr = m.boolVal
		case *int64:
			*ptr = m.intVal
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	existsFirst  int   // report "exists" for the first N uniqueness checks
	checks       int   // uniqueness checks performed
	currentValue int64 // simulated sys_sequences value
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(args) == 1 {
		if _, ok := args[0].(string); ok && m.isExistsQuery(sql) {
			m.checks++
			return &mockRow{boolVal: m.checks <= m.existsFirst}
		}
	}

	m.currentValue++
	return &mockRow{intVal: m.currentValue}
}

func (m *mockQuerier) isExistsQuery(sql string) bool {
	return len(sql) > 0 && sql[0] == 'S'
}

func TestNextRandom_Format(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	num, err := svc.NextRandom(ctx, DefaultConfig("INV"), "invoices", "invoice_number", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pattern := regexp.MustCompile(`^INV-20260901-[0-9A-F]{8}$`)
	if !pattern.MatchString(num) {
		t.Errorf("number %q does not match expected format", num)
	}
}

func TestNextRandom_RetriesOnCollision(t *testing.T) {
	q := &mockQuerier{existsFirst: 2}
	svc := New(q)
	ctx := context.Background()

	num, err := svc.NextRandom(ctx, DefaultConfig("RET"), "returns", "return_number", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num == "" {
		t.Fatal("expected a number after retries")
	}
	if q.checks != 3 {
		t.Errorf("expected 3 uniqueness checks, got %d", q.checks)
	}
}

func TestNextRandom_GivesUpAfterMaxAttempts(t *testing.T) {
	q := &mockQuerier{existsFirst: maxRandomAttempts + 1}
	svc := New(q)

	_, err := svc.NextRandom(context.Background(), DefaultConfig("INV"), "invoices", "invoice_number", time.Now())
	if err == nil {
		t.Fatal("expected error when every candidate collides")
	}
}

func TestNextSequential(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	num, err := svc.NextSequential(ctx, DefaultConfig("BRD"), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "BRD-2026-00001" {
		t.Errorf("expected BRD-2026-00001, got %s", num)
	}

	num, err = svc.NextSequential(ctx, DefaultConfig("BRD"), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "BRD-2026-00002" {
		t.Errorf("expected BRD-2026-00002, got %s", num)
	}
}
