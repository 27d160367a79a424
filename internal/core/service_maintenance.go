package core

import (
	"context"
	"fmt"
)

// DedupeExisting removes stored rows that repeat an earlier identity key,
// keeping the first in stored order. It writes only if something was removed.
//
// This is a repair for registries edited by hand or filled before duplicate
// checks were enforced, not part of the normal participant lifecycle.
func (s *Service) DedupeExisting(ctx context.Context) (DedupeResult, error) {
	var result DedupeResult
	err := s.repo.Update(ctx, func(t Table) (Table, bool, error) {
		kept, removed := DedupeBatch(t)
		result = DedupeResult{Kept: len(kept), Removed: removed}
		return kept, removed > 0, nil
	})
	if err != nil {
		return DedupeResult{}, fmt.Errorf("dedupe registry: %w", err)
	}

	if result.Removed > 0 {
		s.audit.Record(ctx, AuditEntry{
			Action:       ActionDedupe,
			RowsAffected: result.Removed,
		})
	}
	return result, nil
}
