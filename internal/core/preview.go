package core

import (
	"context"
	"fmt"
	"time"
)

// PreviewSummary contains the summary counts for an import preview.
type PreviewSummary struct {
	TotalRows       int `json:"totalRows"`
	NewRows         int `json:"newRows"`
	EmptyRows       int `json:"emptyRows"`
	DuplicateInFile int `json:"duplicateInFile"`
	AlreadyInStore  int `json:"alreadyInStore"`
	WarningRows     int `json:"warningRows"`
}

// RowPreview is a row that would be added, with the number it would receive.
type RowPreview struct {
	Row         int         `json:"row"`
	Participant Participant `json:"participant"`
}

// SkipPreview is a row that would be skipped and why.
type SkipPreview struct {
	Row    int    `json:"row"`
	RowKey string `json:"rowKey,omitempty"`
	Reason string `json:"reason"`
}

// WarningPreview lists cells that will be coerced to their zero value.
type WarningPreview struct {
	Row      int      `json:"row"`
	Warnings []string `json:"warnings"`
}

// PreviewResponse is the complete response from import preview analysis.
type PreviewResponse struct {
	FileName         string           `json:"fileName"`
	HeaderWarning    string           `json:"headerWarning,omitempty"`
	Summary          PreviewSummary   `json:"summary"`
	NewRowSamples    []RowPreview     `json:"newRowSamples"`
	SkipSamples      []SkipPreview    `json:"skipSamples"`
	WarningSamples   []WarningPreview `json:"warningSamples"`
	ProcessingTimeMs int64            `json:"processingTimeMs"`
}

// Sample limits
const (
	maxNewRowSamples  = 10
	maxSkipSamples    = 20
	maxWarningSamples = 20
)

// Skip reasons reported by the preview.
const (
	SkipReasonEmpty    = "missing name or district"
	SkipReasonInFile   = "duplicate within file"
	SkipReasonExisting = "already registered"
)

// PreviewImport performs the import analysis without writing anything.
// Row numbers count data rows below the header, starting at 1.
func (s *Service) PreviewImport(ctx context.Context, fileName string, data []byte) (*PreviewResponse, error) {
	start := time.Now()

	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("preview %s: %w", fileName, ErrFileTooLarge)
	}

	raw, err := ReadTable(fileName, data)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", fileName, err)
	}

	existing, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", fileName, err)
	}

	resp := analyzeImport(raw, existing, s.now())
	resp.FileName = fileName
	if err := ValidateHeaders(raw.Header); err != nil {
		resp.HeaderWarning = err.Error()
	}
	resp.ProcessingTimeMs = time.Since(start).Milliseconds()
	return resp, nil
}

// analyzeImport classifies every raw row the way ImportBatch would.
func analyzeImport(raw RawTable, existing Table, now time.Time) *PreviewResponse {
	resp := &PreviewResponse{
		NewRowSamples:  []RowPreview{},
		SkipSamples:    []SkipPreview{},
		WarningSamples: []WarningPreview{},
	}

	storeKeys := KeysOf(existing)
	seen := make(KeySet)
	nextNo := existing.MaxNo() + 1

	for i, row := range raw.Rows {
		if isEmptyRow(row) {
			continue
		}
		rowNum := i + 1
		resp.Summary.TotalRows++

		if warnings := ValidateRawRow(raw.Header, row); len(warnings) > 0 {
			resp.Summary.WarningRows++
			if len(resp.WarningSamples) < maxWarningSamples {
				msgs := make([]string, len(warnings))
				for j, w := range warnings {
					msgs[j] = w.Error()
				}
				resp.WarningSamples = append(resp.WarningSamples, WarningPreview{Row: rowNum, Warnings: msgs})
			}
		}

		normalized := Normalize(RawTable{Header: raw.Header, Rows: [][]string{row}}.Cleaned(), now)
		p := normalized[0]
		key := p.Key()

		var reason string
		switch {
		case len(ValidateImportRow(p)) > 0:
			resp.Summary.EmptyRows++
			reason = SkipReasonEmpty
			key = ""
		case !seen.Add(key):
			resp.Summary.DuplicateInFile++
			reason = SkipReasonInFile
		case storeKeys.Has(key):
			resp.Summary.AlreadyInStore++
			reason = SkipReasonExisting
		}

		if reason != "" {
			if len(resp.SkipSamples) < maxSkipSamples {
				resp.SkipSamples = append(resp.SkipSamples, SkipPreview{Row: rowNum, RowKey: key, Reason: reason})
			}
			continue
		}

		p.No = nextNo
		nextNo++
		resp.Summary.NewRows++
		if len(resp.NewRowSamples) < maxNewRowSamples {
			resp.NewRowSamples = append(resp.NewRowSamples, RowPreview{Row: rowNum, Participant: p})
		}
	}

	return resp
}
