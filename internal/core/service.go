package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service provides the registry operations used by every front end:
// the HTTP API, the admin CLI and the background publisher.
//
// All mutations go through Repository.Update, which holds the store lock for
// the whole read-check-write cycle.
type Service struct {
	repo    Repository
	imports *ImportLimiter
	audit   *AuditTrail
	now     func() time.Time

	maxFileSize int64
}

// ServiceConfig tunes a Service. Zero values pick the defaults.
type ServiceConfig struct {
	MaxFileSize          int64
	MaxConcurrentImports int
	ImportMaxWait        time.Duration
	AuditCapacity        int
	Clock                func() time.Time
}

// NewService creates a new Service instance.
func NewService(repo Repository, cfg ServiceConfig) (*Service, error) {
	if repo == nil {
		return nil, errors.New("new service: nil repository")
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &Service{
		repo:        repo,
		imports:     NewImportLimiter(cfg.MaxConcurrentImports, cfg.ImportMaxWait),
		audit:       NewAuditTrail(cfg.AuditCapacity),
		now:         cfg.Clock,
		maxFileSize: cfg.MaxFileSize,
	}, nil
}

// CurrentTable returns a normalized snapshot of the registry.
func (s *Service) CurrentTable(ctx context.Context) (Table, error) {
	t, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("current table: %w", err)
	}
	return t, nil
}

// Summary loads the registry and returns its attendance counts.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	t, err := s.CurrentTable(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(t), nil
}

// Filter loads the registry and applies opts.
func (s *Service) Filter(ctx context.Context, opts FilterOptions) (Table, error) {
	t, err := s.CurrentTable(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(t, opts), nil
}

// BuildReport loads the registry and renders the attendance workbook.
func (s *Service) BuildReport(ctx context.Context) (*Report, error) {
	t, err := s.CurrentTable(ctx)
	if err != nil {
		return nil, err
	}
	return BuildReport(t, s.now()), nil
}

// MaxFileSize is the largest import payload the service accepts.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// ImportStatus reports the import limiter state.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.imports.Status()
}

// WaitForImports blocks until in-flight imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.imports.WaitForDrain(ctx)
}

// RecentAudit returns up to limit recent mutations, newest first.
func (s *Service) RecentAudit(limit int) []AuditEntry {
	return s.audit.Recent(limit)
}
