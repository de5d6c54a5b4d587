// Package numerator provides document auto-numbering.
// Sequences live in the sys_sequences table, one row per tenant and
// sequence key, advanced with an UPSERT so numbering survives restarts.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"bherp/internal/core/tenant"
)

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every number.
	// Guarantees sequential numbers without gaps.
	// Slower, suitable for invoices and tax-relevant documents.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Much faster, but may produce gaps if the application restarts.
	// Suitable for offers and internal documents.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	Strategy Strategy

	// RangeSize is the number of IDs to allocate at once in Cached
	// strategy. Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierProvider resolves the querier for the current context, so the
// strict strategy can ride the caller's transaction.
type QuerierProvider func(ctx context.Context) Querier

type cachedRange struct {
	current int64
	max     int64
}

// Service provides document numbering.
type Service struct {
	querier QuerierProvider

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a numerator service.
func New(querier QuerierProvider) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "FA", "KA")
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// ResetPeriod: "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}

// GetNextNumber generates the next document number.
// Pattern: PREFIX-YEAR-XXXXX (e.g., FA-2024-00001)
func (s *Service) GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	if opts == nil {
		opts = DefaultOptions()
	}

	tenantID, err := tenant.RequireTenantID(ctx)
	if err != nil {
		return "", err
	}

	key := s.buildKey(cfg, period)
	cacheKey := fmt.Sprintf("%s:%s", tenantID, key)

	var num int64
	switch opts.Strategy {
	case StrategyCached:
		num, err = s.getNextCached(ctx, tenantID.String(), key, cacheKey, opts)
	default:
		num, err = s.getNextStrict(ctx, tenantID.String(), key, 1)
	}
	if err != nil {
		return "", err
	}

	return s.formatNumber(cfg, period, num), nil
}

// getNextStrict advances the sequence by increment and returns the new
// value with a single UPSERT.
func (s *Service) getNextStrict(ctx context.Context, tenantID, key string, increment int64) (int64, error) {
	var num int64
	err := s.querier(ctx).QueryRow(ctx, `
        INSERT INTO sys_sequences (tenant_id, key, current_val)
        VALUES ($1, $2, $3)
        ON CONFLICT (tenant_id, key)
        DO UPDATE SET current_val = sys_sequences.current_val + $3
        RETURNING current_val
	`, tenantID, key, increment).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("next number: %w", err)
	}
	return num, nil
}

// getNextCached serves numbers from a reserved in-memory range,
// refilling from the database when the range runs out.
func (s *Service) getNextCached(ctx context.Context, tenantID, key, cacheKey string, opts *Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, exists := s.ranges[cacheKey]
	if !exists {
		rng = &cachedRange{}
		s.ranges[cacheKey] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		newMax, err := s.getNextStrict(ctx, tenantID, key, size)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		// The reserved range is (newMax-size, newMax].
		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber sets the sequence value (for migrations and imports).
func (s *Service) SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error {
	tenantID, err := tenant.RequireTenantID(ctx)
	if err != nil {
		return err
	}

	key := s.buildKey(cfg, period)

	var result int64
	err = s.querier(ctx).QueryRow(ctx, `
        INSERT INTO sys_sequences (tenant_id, key, current_val)
        VALUES ($1, $2, $3)
        ON CONFLICT (tenant_id, key)
        DO UPDATE SET current_val = $3
        RETURNING current_val
	`, tenantID.String(), key, value).Scan(&result)
	if err != nil {
		return fmt.Errorf("set number: %w", err)
	}

	s.cacheMu.Lock()
	delete(s.ranges, fmt.Sprintf("%s:%s", tenantID, key))
	s.cacheMu.Unlock()

	return nil
}

// buildKey derives the sequence key from prefix and reset period.
func (s *Service) buildKey(cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%d_%02d", cfg.Prefix, period.Year(), period.Month())
	case "never":
		return cfg.Prefix
	default: // year
		return fmt.Sprintf("%s_%d", cfg.Prefix, period.Year())
	}
}

// formatNumber renders the final document number.
func (s *Service) formatNumber(cfg Config, period time.Time, num int64) string {
	pad := cfg.PadWidth
	if pad <= 0 {
		pad = 5
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%d-%0*d", cfg.Prefix, period.Year(), pad, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, pad, num)
}
