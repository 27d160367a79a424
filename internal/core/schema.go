package core

import (
	"strings"
	"time"
)

// ParticipantFields is the canonical column set, in on-disk order.
var ParticipantFields = []FieldSpec{
	{Name: ColNo, Type: FieldNumeric, Aliases: []string{"no", "no.", "#", "sequence_number", "sequence number", "seq"}},
	{Name: ColName, Type: FieldText, Required: true, Aliases: []string{"name", "full name", "participant", "participant name"}},
	{Name: ColAssociation, Type: FieldText, Aliases: []string{
		"name of co-operative/association", "co-operative/association", "cooperative/association",
		"cooperative_or_association", "co-operative", "cooperative", "association",
	}},
	{Name: ColDistrict, Type: FieldText, Required: true, Aliases: []string{"district"}},
	{Name: ColProvince, Type: FieldText, Required: true, Aliases: []string{"province"}},
	{Name: ColRegisteredOn, Type: FieldTimestamp, Aliases: []string{"registered_on", "registered on", "registered"}},
	{Name: ColDay1, Type: FieldBool, Aliases: []string{"day1_attended", "day1 attended", "day 1 attended", "day1", "day 1"}},
	{Name: ColDay2, Type: FieldBool, Aliases: []string{"day2_attended", "day2 attended", "day 2 attended", "day2", "day 2"}},
	{Name: ColSignature, Type: FieldText, Aliases: []string{"signature"}},
}

// Positions of the canonical fields within ParticipantFields.
const (
	fieldNo = iota
	fieldName
	fieldAssociation
	fieldDistrict
	fieldProvince
	fieldRegisteredOn
	fieldDay1
	fieldDay2
	fieldSignature
)

// CanonicalColumns returns the canonical headers in on-disk order.
func CanonicalColumns() []string {
	cols := make([]string, len(ParticipantFields))
	for i, f := range ParticipantFields {
		cols[i] = f.Name
	}
	return cols
}

// resolveColumns maps each canonical field to its position in header, or -1.
func resolveColumns(header []string) []int {
	idx := MakeHeaderIndex(header)
	pos := make([]int, len(ParticipantFields))
	for i, spec := range ParticipantFields {
		pos[i] = -1
		if p, ok := idx[headerKey(spec.Name)]; ok {
			pos[i] = p
			continue
		}
		for _, alias := range spec.Aliases {
			if p, ok := idx[alias]; ok {
				pos[i] = p
				break
			}
		}
	}
	return pos
}

// Normalize converts loosely typed input into the canonical table.
//
// Unknown columns are dropped and missing ones are filled: Registered_On with
// now, attendance with false, Signature with "" and NO. with unassigned.
// Text cells are only trimmed, so a stored value keeps the identity key it was
// checked under. Spreadsheet artifacts in uploads are removed earlier by
// [RawTable.Cleaned]. Rows with no content at all are skipped.
//
// Normalize is idempotent: Normalize(Normalize(raw, t).Raw(), t) equals
// Normalize(raw, t).
func Normalize(raw RawTable, now time.Time) Table {
	pos := resolveColumns(raw.Header)
	stamp := now.Format(TimestampLayout)

	out := make(Table, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		if isEmptyRow(row) {
			continue
		}

		cell := func(field int) string {
			p := pos[field]
			if p < 0 || p >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[p])
		}

		p := Participant{
			No:           ParseSequence(cell(fieldNo)),
			Name:         cell(fieldName),
			Association:  cell(fieldAssociation),
			District:     cell(fieldDistrict),
			Province:     cell(fieldProvince),
			RegisteredOn: cell(fieldRegisteredOn),
			Day1Attended: ParseLooseBool(cell(fieldDay1)),
			Day2Attended: ParseLooseBool(cell(fieldDay2)),
			Signature:    cell(fieldSignature),
		}
		if p.RegisteredOn == "" {
			p.RegisteredOn = stamp
		}
		out = append(out, p)
	}
	return out
}

// NormalizeTable re-applies the canonical cleanup to an already typed table.
// It is what Save runs before writing.
func NormalizeTable(t Table, now time.Time) Table {
	return Normalize(t.Raw(), now)
}

// Cleaned returns a copy of raw with [CleanCell] applied to every data cell.
// Imports run it before [Normalize]; the store path never does.
func (raw RawTable) Cleaned() RawTable {
	out := RawTable{Header: raw.Header, Rows: make([][]string, len(raw.Rows))}
	for i, row := range raw.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = CleanCell(v)
		}
		out.Rows[i] = cells
	}
	return out
}

// Raw renders the table with canonical headers and textual cells.
func (t Table) Raw() RawTable {
	raw := RawTable{
		Header: CanonicalColumns(),
		Rows:   make([][]string, 0, len(t)),
	}
	for _, p := range t {
		raw.Rows = append(raw.Rows, p.Cells())
	}
	return raw
}

// Cells renders a participant as one canonical row.
func (p Participant) Cells() []string {
	return []string{
		FormatSequence(p.No),
		p.Name,
		p.Association,
		p.District,
		p.Province,
		p.RegisteredOn,
		FormatBool(p.Day1Attended),
		FormatBool(p.Day2Attended),
		p.Signature,
	}
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
