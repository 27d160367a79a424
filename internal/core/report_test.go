package core

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/xuri/excelize/v2"
)

func reportFixture() Table {
	return Table{
		{No: 1, Name: "Ann", Association: "Farmers", District: "Kabwe", Province: "Central", RegisteredOn: "2026-03-13 08:00:00", Day1Attended: true, Day2Attended: true},
		{No: 2, Name: "Ben", Association: "Farmers", District: "Ndola", Province: "Copperbelt", RegisteredOn: "2026-03-13 08:05:00", Day1Attended: true},
		{No: 3, Name: "Cal", Association: "Growers", District: "Kabwe", Province: "Central", RegisteredOn: "2026-03-13 08:10:00", Day2Attended: true},
		{No: 4, Name: "Dee", District: "Kitwe", Province: "Copperbelt", RegisteredOn: "2026-03-13 08:15:00"},
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(reportFixture())
	want := Summary{Total: 4, Day1: 2, Day2: 2, Both: 1, Either: 3, Neither: 1}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}

	if empty := Summarize(nil); empty != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v", empty)
	}
}

func TestBuildReport_Golden(t *testing.T) {
	r := BuildReport(reportFixture(), testNow)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "attendance_report", data)
}

func TestBuildReport_UnnumberedRowsAreRegistered(t *testing.T) {
	r := BuildReport(Table{
		{No: 1, Name: "A", District: "Kabwe", Day1Attended: true},
		{Name: "B", District: "Kabwe", Day1Attended: true},
	}, testNow)

	if len(r.ByDistrict) != 1 {
		t.Fatalf("groups = %+v", r.ByDistrict)
	}
	g := r.ByDistrict[0]
	if g.Registered != 2 || g.Day1 != 2 || g.None != 0 || g.Day1Rate != 100 {
		t.Errorf("group = %+v", g)
	}
}

func TestBuildReport_EmptyTable(t *testing.T) {
	r := BuildReport(Table{}, testNow)

	for _, m := range r.Summary {
		if m.Count != 0 || m.Rate != 0 {
			t.Errorf("metric %q = %+v, want zero", m.Metric, m)
		}
	}
	if len(r.ByDistrict) != 0 || len(r.ByProvince) != 0 || len(r.ByAssociation) != 0 {
		t.Error("empty table should produce empty groups")
	}
	if _, err := r.Bytes(); err != nil {
		t.Errorf("Bytes() on empty report: %v", err)
	}
}

func TestReport_FileName(t *testing.T) {
	r := BuildReport(nil, testNow)
	if got, want := r.FileName(), "attendance_report_20260314_0930.xlsx"; got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}

func TestRenderReport_Workbook(t *testing.T) {
	data, name, err := RenderReport(reportFixture(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	if name != "attendance_report_20260314_0930.xlsx" {
		t.Errorf("name = %q", name)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open rendered workbook: %v", err)
	}
	defer f.Close()

	wantSheets := []string{SheetSummary, SheetByDistrict, SheetByProvince, SheetByAssociation, SheetRawData}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, wantSheets) {
		t.Errorf("sheets = %v, want %v", got, wantSheets)
	}

	summary, err := f.GetRows(SheetSummary)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(summary[0], []string{"Metric", "Count", "Rate_%"}) {
		t.Errorf("summary header = %v", summary[0])
	}
	if !reflect.DeepEqual(summary[4], []string{"Attended Either Day", "3", "75"}) {
		t.Errorf("either row = %v", summary[4])
	}

	district, err := f.GetRows(SheetByDistrict)
	if err != nil {
		t.Fatal(err)
	}
	if district[0][0] != "District" || district[1][0] != "Kabwe" {
		t.Errorf("district sheet = %v", district[:2])
	}

	raw, err := f.GetRows(SheetRawData)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 5 || !reflect.DeepEqual(raw[0], CanonicalColumns()) {
		t.Errorf("raw header = %v, rows = %d", raw[0], len(raw))
	}
	if raw[1][6] != "TRUE" || raw[4][6] != "FALSE" {
		t.Errorf("attendance cells = %q, %q", raw[1][6], raw[4][6])
	}
}

func TestGroupBy_TieBreak(t *testing.T) {
	rows := groupBy(Table{
		{District: "Zambezi"},
		{District: "Chipata"},
		{District: "Mongu"},
		{District: "Mongu"},
	}, func(p Participant) string { return p.District })

	var labels []string
	for _, r := range rows {
		labels = append(labels, r.Label)
	}
	if want := []string{"Mongu", "Chipata", "Zambezi"}; !reflect.DeepEqual(labels, want) {
		t.Errorf("order = %v, want %v", labels, want)
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		n, d int
		want float64
	}{
		{1, 3, 33.33},
		{2, 3, 66.67},
		{0, 0, 0},
		{5, 5, 100},
	}
	for _, tt := range tests {
		if got := rate(tt.n, tt.d); got != tt.want {
			t.Errorf("rate(%d, %d) = %v, want %v", tt.n, tt.d, got, tt.want)
		}
	}
}
