package core

// upload.go turns an uploaded file into a RawTable.
//
// Two formats are accepted: Excel workbooks (first sheet) and CSV. The format
// is sniffed from the content, with the file extension as a tiebreaker, so a
// workbook renamed to .csv still imports. Header rows are located within the
// first MaxHeaderSearchRows rows to tolerate title lines above the table.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// File errors. Messages carry the patterns MapError recognises.
var (
	ErrFileTooLarge   = errors.New("file too large")
	ErrUnreadableFile = errors.New("unreadable file")
	ErrEmptyFile      = errors.New("empty file")
	ErrNoFile         = errors.New("no file provided")
)

// DefaultMaxFileSize caps an import payload (20MB).
const DefaultMaxFileSize int64 = 20 * 1024 * 1024

// MaxHeaderSearchRows is the maximum number of rows to scan for the header.
var MaxHeaderSearchRows = 20

var zipMagic = []byte("PK\x03\x04")

// ReadUpload reads an upload body, failing with ErrFileTooLarge past maxSize.
func ReadUpload(r io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(NewLimitReader(r, maxSize))
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// ReadTable parses an uploaded workbook or CSV file.
// Any failure here is structural and wraps ErrUnreadableFile or ErrEmptyFile.
func ReadTable(fileName string, data []byte) (RawTable, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return RawTable{}, ErrEmptyFile
	}

	var (
		records [][]string
		err     error
	)
	switch {
	case isWorkbook(fileName, data):
		records, err = ReadWorkbookRecords(bytes.NewReader(data))
	case looksBinary(data):
		return RawTable{}, fmt.Errorf("%w: %s is neither a workbook nor text", ErrUnreadableFile, fileName)
	default:
		records, err = ReadCSVRecords(bytes.NewReader(data))
	}
	if err != nil {
		return RawTable{}, err
	}

	return TableFromRecords(records)
}

// ReadWorkbookRecords returns the rows of the first sheet of a workbook.
func ReadWorkbookRecords(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableFile)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrUnreadableFile, sheets[0], err)
	}
	return rows, nil
}

// ReadCSVRecords parses CSV leniently: BOM stripped, invalid UTF-8 replaced,
// ragged rows and stray quotes accepted.
func ReadCSVRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(WrapCSVSource(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %v", ErrUnreadableFile, err)
	}
	return records, nil
}

// TableFromRecords locates the header row and returns the rows beneath it.
// Without a recognisable header the first non-empty row is used.
func TableFromRecords(records [][]string) (RawTable, error) {
	h := findHeaderInRecords(records)
	if h < 0 {
		h = firstNonEmpty(records)
	}
	if h < 0 {
		return RawTable{}, ErrEmptyFile
	}
	return RawTable{Header: records[h], Rows: records[h+1:]}, nil
}

// findHeaderInRecords returns the first row naming both identity columns.
func findHeaderInRecords(records [][]string) int {
	maxRows := MaxHeaderSearchRows
	if len(records) < maxRows {
		maxRows = len(records)
	}
	for i := 0; i < maxRows; i++ {
		pos := resolveColumns(records[i])
		if pos[fieldName] >= 0 && pos[fieldDistrict] >= 0 {
			return i
		}
	}
	return -1
}

func firstNonEmpty(records [][]string) int {
	for i, row := range records {
		if !isEmptyRow(row) {
			return i
		}
	}
	return -1
}

func isWorkbook(fileName string, data []byte) bool {
	if bytes.HasPrefix(data, zipMagic) {
		return true
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// looksBinary reports NUL bytes near the start, which no CSV export contains.
func looksBinary(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.IndexByte(head, 0) >= 0
}
