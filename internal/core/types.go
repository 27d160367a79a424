package core

import (
	"context"
	"fmt"
	"time"
)

// TimestampLayout is the on-disk format of Registered_On.
const TimestampLayout = "2006-01-02 15:04:05"

// Canonical column headers, in on-disk order.
const (
	ColNo           = "NO."
	ColName         = "Name"
	ColAssociation  = "Name of Co-operative/Association"
	ColDistrict     = "District"
	ColProvince     = "Province"
	ColRegisteredOn = "Registered_On"
	ColDay1         = "Day1_Attended"
	ColDay2         = "Day2_Attended"
	ColSignature    = "Signature"
)

// FieldType represents the expected data type for a column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumeric
	FieldBool
	FieldTimestamp
)

// FieldSpec defines how a single canonical column is recognised and coerced.
type FieldSpec struct {
	Name     string    // Canonical header written to disk
	Type     FieldType // Expected data type
	Required bool      // Must be non-empty for a valid participant
	Aliases  []string  // Additional accepted headers (lowercase, single-spaced)
}

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// RawTable is loosely typed tabular input: any headers, any order, all text.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Participant is one canonical registry record.
//
// No is the sequence number; zero means unassigned.
type Participant struct {
	No           int    `json:"no,omitempty"`
	Name         string `json:"name"`
	Association  string `json:"association"`
	District     string `json:"district"`
	Province     string `json:"province"`
	RegisteredOn string `json:"registered_on"`
	Day1Attended bool   `json:"day1_attended"`
	Day2Attended bool   `json:"day2_attended"`
	Signature    string `json:"signature"`
}

// Key returns the participant's identity key.
func (p Participant) Key() string {
	return IdentityKey(p.Name, p.District)
}

// Table is the canonical in-memory registry, in stored order.
type Table []Participant

// Clone returns a copy that shares no backing array with t.
func (t Table) Clone() Table {
	if t == nil {
		return Table{}
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// MaxNo returns the highest assigned sequence number, or 0 if none.
func (t Table) MaxNo() int {
	max := 0
	for _, p := range t {
		if p.No > max {
			max = p.No
		}
	}
	return max
}

// IndexOf returns the position of the first participant with sequence number no.
func (t Table) IndexOf(no int) int {
	if no <= 0 {
		return -1
	}
	for i, p := range t {
		if p.No == no {
			return i
		}
	}
	return -1
}

// Day selects one of the two conference days.
type Day int

const (
	Day1 Day = 1
	Day2 Day = 2
)

// Valid reports whether d is a conference day.
func (d Day) Valid() bool {
	return d == Day1 || d == Day2
}

func (d Day) String() string {
	return fmt.Sprintf("day%d", int(d))
}

// Summary holds whole-table attendance counts.
type Summary struct {
	Total   int `json:"total"`
	Day1    int `json:"day1"`
	Day2    int `json:"day2"`
	Both    int `json:"both"`
	Either  int `json:"either"`
	Neither int `json:"neither"`
}

// RegisterRequest carries the fields collected at the registration desk.
type RegisterRequest struct {
	Name        string `json:"name"`
	Association string `json:"association"`
	District    string `json:"district"`
	Province    string `json:"province"`
}

// RegisterResult reports the outcome of a registration attempt.
// Validation and duplicate failures are reported here, never as errors.
type RegisterResult struct {
	OK          bool         `json:"ok"`
	Message     string       `json:"message"`
	Participant *Participant `json:"participant,omitempty"`
}

// CheckinResult classifies every requested sequence number.
type CheckinResult struct {
	Updated  int `json:"updated"`
	Already  int `json:"already"`
	NotFound int `json:"not_found"`
}

// ImportResult summarizes one bulk import.
type ImportResult struct {
	BatchID         string        `json:"batch_id"`
	FileName        string        `json:"file_name"`
	Added           int           `json:"added"`
	Skipped         int           `json:"skipped"`
	SkippedEmpty    int           `json:"skipped_empty"`
	SkippedInternal int           `json:"skipped_internal"`
	SkippedExisting int           `json:"skipped_existing"`
	FirstNo         int           `json:"first_no,omitempty"`
	LastNo          int           `json:"last_no,omitempty"`
	Duration        time.Duration `json:"duration"`
}

// DedupeResult reports the outcome of the maintenance dedup pass.
type DedupeResult struct {
	Kept    int `json:"kept"`
	Removed int `json:"removed"`
}

// FilterOptions selects participants by case-insensitive substring.
// Blank fields do not constrain the result.
type FilterOptions struct {
	Name        string `json:"name"`
	District    string `json:"district"`
	Association string `json:"association"`
}

// UpdateFunc mutates a snapshot of the registry. It returns the table to
// persist and whether anything changed; unchanged tables are not written.
type UpdateFunc func(Table) (Table, bool, error)

// Repository is the persistent store the service operates on.
// Update must hold the store lock across load, fn and save.
type Repository interface {
	Load(ctx context.Context) (Table, error)
	Update(ctx context.Context, fn UpdateFunc) error
}
