package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/register/internal/core"
)

type csvCodec struct {
	path string
}

func (c *csvCodec) read(ctx context.Context) (core.RawTable, bool, error) {
	f, err := os.Open(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return core.RawTable{}, false, nil
	}
	if err != nil {
		return core.RawTable{}, false, err
	}
	defer f.Close()

	records, err := core.ReadCSVRecords(f)
	if err != nil {
		return core.RawTable{}, false, err
	}
	return tableFromRecords(records)
}

func (c *csvCodec) write(ctx context.Context, t core.Table) error {
	raw := t.Raw()
	return writeFileAtomic(c.path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(raw.Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if err := cw.WriteAll(raw.Rows); err != nil {
			return fmt.Errorf("write rows: %w", err)
		}
		return nil
	})
}

func (c *csvCodec) close() error { return nil }
