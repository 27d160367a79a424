package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/register/internal/core"
)

// SheetName is the worksheet holding the registry.
const SheetName = "Registrations"

type xlsxCodec struct {
	path string
}

func (c *xlsxCodec) read(ctx context.Context) (core.RawTable, bool, error) {
	f, err := os.Open(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return core.RawTable{}, false, nil
	}
	if err != nil {
		return core.RawTable{}, false, err
	}
	defer f.Close()

	records, err := core.ReadWorkbookRecords(f)
	if err != nil {
		return core.RawTable{}, false, err
	}
	return tableFromRecords(records)
}

func (c *xlsxCodec) write(ctx context.Context, t core.Table) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, 0, len(core.ParticipantFields))
	for _, col := range core.CanonicalColumns() {
		header = append(header, col)
	}
	if err := wb.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range t {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := participantCells(p)
		if err := wb.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return writeFileAtomic(c.path, func(w io.Writer) error {
		if err := wb.Write(w); err != nil {
			return fmt.Errorf("encode workbook: %w", err)
		}
		return nil
	})
}

func (c *xlsxCodec) close() error { return nil }

// participantCells renders p with typed cells: numbers for NO. and
// booleans for the attendance flags.
func participantCells(p core.Participant) []any {
	var no any
	if p.No > 0 {
		no = p.No
	}
	return []any{
		no, p.Name, p.Association, p.District, p.Province,
		p.RegisteredOn, p.Day1Attended, p.Day2Attended, p.Signature,
	}
}

// tableFromRecords treats a file with no rows at all as not yet saved.
func tableFromRecords(records [][]string) (core.RawTable, bool, error) {
	raw, err := core.TableFromRecords(records)
	if errors.Is(err, core.ErrEmptyFile) {
		return core.RawTable{}, false, nil
	}
	if err != nil {
		return core.RawTable{}, false, err
	}
	return raw, true, nil
}
