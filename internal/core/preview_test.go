package core

import (
	"context"
	"errors"
	"testing"
)

func TestPreviewImport(t *testing.T) {
	svc, repo := newTestService(t, Table{{No: 4, Name: "Ann", District: "Kabwe", Province: "Central"}})
	data := []byte("NO.,Name,District,Province,Day1_Attended\n" +
		"x,Ann,Kabwe,Central,TRUE\n" +
		",Ben,Ndola,Copperbelt,maybe\n" +
		",ben,ndola,Copperbelt,\n" +
		",,Ndola,Copperbelt,\n" +
		",,,,\n" +
		",Cal,Kitwe,Copperbelt,yes\n")

	resp, err := svc.PreviewImport(context.Background(), "preview.csv", data)
	if err != nil {
		t.Fatal(err)
	}

	want := PreviewSummary{
		TotalRows:       5,
		NewRows:         2,
		EmptyRows:       1,
		DuplicateInFile: 1,
		AlreadyInStore:  1,
		WarningRows:     2,
	}
	if resp.Summary != want {
		t.Errorf("summary = %+v, want %+v", resp.Summary, want)
	}
	if resp.FileName != "preview.csv" {
		t.Errorf("file name = %q", resp.FileName)
	}

	if len(resp.NewRowSamples) != 2 {
		t.Fatalf("new samples = %+v", resp.NewRowSamples)
	}
	if s := resp.NewRowSamples[0]; s.Row != 2 || s.Participant.No != 5 || s.Participant.Name != "Ben" {
		t.Errorf("first new sample = %+v", s)
	}
	if s := resp.NewRowSamples[1]; s.Row != 6 || s.Participant.No != 6 {
		t.Errorf("second new sample = %+v", s)
	}

	reasons := map[int]string{}
	for _, s := range resp.SkipSamples {
		reasons[s.Row] = s.Reason
	}
	if reasons[1] != SkipReasonExisting || reasons[3] != SkipReasonInFile || reasons[4] != SkipReasonEmpty {
		t.Errorf("skip reasons = %v", reasons)
	}

	if repo.saveCount() != 0 {
		t.Error("preview must not write")
	}
}

// Preview and import must agree on what gets added.
func TestPreviewImport_MatchesImport(t *testing.T) {
	data := []byte("Name,District\nA,D1\nB,D1\na,d1\n,D2\nC,\nD,D3\n")

	svc, _ := newTestService(t, Table{{No: 1, Name: "D", District: "D3"}})
	preview, err := svc.PreviewImport(context.Background(), "x.csv", data)
	if err != nil {
		t.Fatal(err)
	}
	res, err := svc.ImportBatch(context.Background(), "x.csv", data)
	if err != nil {
		t.Fatal(err)
	}

	if preview.Summary.NewRows != res.Added {
		t.Errorf("preview new = %d, import added = %d", preview.Summary.NewRows, res.Added)
	}
	skipped := preview.Summary.EmptyRows + preview.Summary.DuplicateInFile + preview.Summary.AlreadyInStore
	if skipped != res.Skipped {
		t.Errorf("preview skipped = %d, import skipped = %d", skipped, res.Skipped)
	}
}

func TestPreviewImport_HeaderWarning(t *testing.T) {
	svc, _ := newTestService(t, nil)

	resp, err := svc.PreviewImport(context.Background(), "x.csv", []byte("Name,Phone\nAnn,123\n"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "missing required column: District, Province"; resp.HeaderWarning != want {
		t.Errorf("header warning = %q, want %q", resp.HeaderWarning, want)
	}
	if resp.Summary.EmptyRows != 1 || resp.Summary.NewRows != 0 {
		t.Errorf("summary = %+v", resp.Summary)
	}

	resp, err = svc.PreviewImport(context.Background(), "x.csv", []byte("Name,District,Province\nAnn,Kabwe,Central\n"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.HeaderWarning != "" {
		t.Errorf("unexpected header warning %q", resp.HeaderWarning)
	}
}

func TestPreviewImport_Errors(t *testing.T) {
	svc, _ := newTestService(t, nil)

	if _, err := svc.PreviewImport(context.Background(), "x.csv", []byte("  ")); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("err = %v, want ErrEmptyFile", err)
	}
}
