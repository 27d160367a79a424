package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/register/internal/logging"
)

// ImportBatch merges an uploaded workbook or CSV file into the registry.
//
// Rows with an empty name or district are skipped, then duplicates within the
// file (first occurrence wins), then rows already in the registry. Survivors
// are numbered contiguously from the current maximum and appended in one
// write. Bad rows never fail the import; only an unreadable file does.
func (s *Service) ImportBatch(ctx context.Context, fileName string, data []byte) (ImportResult, error) {
	start := time.Now()
	result := ImportResult{BatchID: uuid.NewString(), FileName: fileName}

	if int64(len(data)) > s.maxFileSize {
		return result, fmt.Errorf("import %s: %w: %d bytes exceeds %d", fileName, ErrFileTooLarge, len(data), s.maxFileSize)
	}

	logger := logging.WithFields(ctx, "batch_id", result.BatchID, "file", fileName)

	err := s.imports.Do(ctx, fileName, func() error {
		raw, err := ReadTable(fileName, data)
		if err != nil {
			return err
		}

		if err := ValidateHeaders(raw.Header); err != nil {
			logger.Warn("import header incomplete, affected rows will be skipped", "error", err)
		}

		candidates, skippedEmpty, skippedInternal := prepareImport(Normalize(raw.Cleaned(), s.now()))
		result.SkippedEmpty = skippedEmpty
		result.SkippedInternal = skippedInternal

		return s.repo.Update(ctx, func(t Table) (Table, bool, error) {
			toAdd, skippedExisting := ExcludeKeys(candidates, KeysOf(t))
			result.SkippedExisting = skippedExisting
			if len(toAdd) == 0 {
				return t, false, nil
			}

			first := t.MaxNo() + 1
			for i := range toAdd {
				toAdd[i].No = first + i
			}
			result.Added = len(toAdd)
			result.FirstNo = first
			result.LastNo = first + len(toAdd) - 1
			return append(t, toAdd...), true, nil
		})
	})
	result.Skipped = result.SkippedEmpty + result.SkippedInternal + result.SkippedExisting
	result.Duration = time.Since(start)
	if err != nil {
		return result, fmt.Errorf("import %s: %w", fileName, err)
	}

	logger.Info("import applied",
		"added", result.Added,
		"skipped", result.Skipped,
		"skipped_empty", result.SkippedEmpty,
		"skipped_internal", result.SkippedInternal,
		"skipped_existing", result.SkippedExisting,
		"duration_ms", result.Duration.Milliseconds(),
	)
	if result.Added > 0 {
		s.audit.Record(ctx, AuditEntry{
			Action:       ActionImport,
			RowsAffected: result.Added,
			BatchID:      result.BatchID,
			Reason:       fileName,
		})
	}
	return result, nil
}

// prepareImport runs the store-independent steps: drop rows missing a name or
// district, then collapse duplicates within the batch.
func prepareImport(incoming Table) (candidates Table, skippedEmpty, skippedInternal int) {
	valid := make(Table, 0, len(incoming))
	for _, p := range incoming {
		if len(ValidateImportRow(p)) > 0 {
			continue
		}
		valid = append(valid, p)
	}
	skippedEmpty = len(incoming) - len(valid)

	candidates, skippedInternal = DedupeBatch(valid)
	return candidates, skippedEmpty, skippedInternal
}
