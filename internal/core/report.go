package core

// report.go computes grouped attendance statistics and renders them as a
// multi-sheet workbook: Summary, By District, By Province, By Association
// and Raw Data. Building a report never touches the store.

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet names, in workbook order.
const (
	SheetSummary       = "Summary"
	SheetByDistrict    = "By District"
	SheetByProvince    = "By Province"
	SheetByAssociation = "By Association"
	SheetRawData       = "Raw Data"
)

// ReportContentType is the MIME type of the rendered workbook.
const ReportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var groupHeader = []string{
	"Registered", "Day1_Attended", "Day2_Attended", "Both_Attended", "Either_Attended", "None_Attended",
	"Day1_Rate_%", "Day2_Rate_%", "Either_Rate_%", "Both_Rate_%",
}

// MetricRow is one line of the Summary sheet.
type MetricRow struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Rate   float64 `json:"rate"`
}

// GroupRow is one line of a grouped sheet.
type GroupRow struct {
	Label      string  `json:"label"`
	Registered int     `json:"registered"`
	Day1       int     `json:"day1"`
	Day2       int     `json:"day2"`
	Both       int     `json:"both"`
	Either     int     `json:"either"`
	None       int     `json:"none"`
	Day1Rate   float64 `json:"day1_rate"`
	Day2Rate   float64 `json:"day2_rate"`
	EitherRate float64 `json:"either_rate"`
	BothRate   float64 `json:"both_rate"`
}

// Report holds the computed contents of an attendance workbook.
type Report struct {
	GeneratedAt   time.Time   `json:"-"`
	Summary       []MetricRow `json:"summary"`
	ByDistrict    []GroupRow  `json:"by_district"`
	ByProvince    []GroupRow  `json:"by_province"`
	ByAssociation []GroupRow  `json:"by_association"`
	Raw           Table       `json:"-"`
}

// BuildReport computes every sheet of the attendance report for t.
func BuildReport(t Table, now time.Time) *Report {
	s := Summarize(t)
	denom := s.Total
	if denom < 1 {
		denom = 1
	}

	metric := func(name string, n int) MetricRow {
		return MetricRow{Metric: name, Count: n, Rate: rate(n, denom)}
	}

	return &Report{
		GeneratedAt: now,
		Summary: []MetricRow{
			metric("Total Registered", s.Total),
			metric("Attended Day 1", s.Day1),
			metric("Attended Day 2", s.Day2),
			metric("Attended Either Day", s.Either),
			metric("Attended Both Days", s.Both),
			metric("Attended Neither Day", s.Neither),
		},
		ByDistrict:    groupBy(t, func(p Participant) string { return p.District }),
		ByProvince:    groupBy(t, func(p Participant) string { return p.Province }),
		ByAssociation: groupBy(t, func(p Participant) string { return p.Association }),
		Raw:           t.Clone(),
	}
}

// FileName returns attendance_report_YYYYMMDD_HHMM.xlsx for the build time.
func (r *Report) FileName() string {
	return fmt.Sprintf("attendance_report_%s.xlsx", r.GeneratedAt.Format("20060102_1504"))
}

// groupBy aggregates t by label, sorted by Registered descending and then
// label ascending. Every row counts as registered, numbered or not.
func groupBy(t Table, label func(Participant) string) []GroupRow {
	idx := make(map[string]int)
	rows := make([]GroupRow, 0)
	for _, p := range t {
		l := label(p)
		i, ok := idx[l]
		if !ok {
			i = len(rows)
			idx[l] = i
			rows = append(rows, GroupRow{Label: l})
		}
		g := &rows[i]
		g.Registered++
		if p.Day1Attended {
			g.Day1++
		}
		if p.Day2Attended {
			g.Day2++
		}
		if p.Day1Attended && p.Day2Attended {
			g.Both++
		}
	}

	for i := range rows {
		g := &rows[i]
		g.Either = g.Day1 + g.Day2 - g.Both
		g.None = g.Registered - g.Either
		g.Day1Rate = rate(g.Day1, g.Registered)
		g.Day2Rate = rate(g.Day2, g.Registered)
		g.EitherRate = rate(g.Either, g.Registered)
		g.BothRate = rate(g.Both, g.Registered)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Registered != rows[j].Registered {
			return rows[i].Registered > rows[j].Registered
		}
		return rows[i].Label < rows[j].Label
	})
	return rows
}

// rate returns n/denom as a percentage rounded to 2 decimals.
func rate(n, denom int) float64 {
	if denom <= 0 {
		return 0
	}
	return math.Round(float64(n)/float64(denom)*100*100) / 100
}

// Workbook renders the report. The caller must Close the returned file.
func (r *Report) Workbook() (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("report: rename sheet: %w", err)
	}

	summary := make([][]any, len(r.Summary))
	for i, m := range r.Summary {
		summary[i] = []any{m.Metric, m.Count, m.Rate}
	}
	sheets := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{SheetSummary, []string{"Metric", "Count", "Rate_%"}, summary},
		{SheetByDistrict, append([]string{ColDistrict}, groupHeader...), groupCells(r.ByDistrict)},
		{SheetByProvince, append([]string{ColProvince}, groupHeader...), groupCells(r.ByProvince)},
		{SheetByAssociation, append([]string{"Association"}, groupHeader...), groupCells(r.ByAssociation)},
		{SheetRawData, CanonicalColumns(), rawCells(r.Raw)},
	}

	for _, sh := range sheets {
		if sh.name != SheetSummary {
			if _, err := f.NewSheet(sh.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("report: add sheet %q: %w", sh.name, err)
			}
		}
		if err := writeSheet(f, sh.name, sh.header, sh.rows); err != nil {
			f.Close()
			return nil, fmt.Errorf("report: %w", err)
		}
	}

	return f, nil
}

// Bytes renders the report as .xlsx bytes.
func (r *Report) Bytes() ([]byte, error) {
	f, err := r.Workbook()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderReport is BuildReport followed by Bytes and FileName.
func RenderReport(t Table, now time.Time) ([]byte, string, error) {
	r := BuildReport(t, now)
	data, err := r.Bytes()
	if err != nil {
		return nil, "", err
	}
	return data, r.FileName(), nil
}

func groupCells(rows []GroupRow) [][]any {
	out := make([][]any, len(rows))
	for i, g := range rows {
		out[i] = []any{
			g.Label, g.Registered, g.Day1, g.Day2, g.Both, g.Either, g.None,
			g.Day1Rate, g.Day2Rate, g.EitherRate, g.BothRate,
		}
	}
	return out
}

func rawCells(t Table) [][]any {
	out := make([][]any, len(t))
	for i, p := range t {
		var no any
		if p.No > 0 {
			no = p.No
		}
		out[i] = []any{
			no, p.Name, p.Association, p.District, p.Province,
			p.RegisteredOn, p.Day1Attended, p.Day2Attended, p.Signature,
		}
	}
	return out
}

// writeSheet writes a header row followed by rows, starting at A1.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("write %q header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %q row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
