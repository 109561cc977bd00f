package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/planfacthq/planfact/internal/model"
)

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing export file: %v", err)
	}
	return path
}

func TestParseFile(t *testing.T) {
	path := writeExport(t, `{"owner_id":"u1","date":"2024-01-01","values":{"m1":{"plan":10,"actual":8}}}
{"owner_id":"u1","date":"2024-01-02","values":{"m1":{"plan":10,"actual":12},"m2":{"actual":3}}}
`)

	result := ParseFile(path)
	if result.Err != nil {
		t.Fatalf("ParseFile: %v", result.Err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("parsed %d records, want 2", len(result.Records))
	}
	if result.ParseErrors != 0 {
		t.Fatalf("parse errors = %d, want 0", result.ParseErrors)
	}

	second := result.Records[1]
	if second.Values["m1"].Actual != 12 {
		t.Fatalf("m1 actual = %v, want 12", second.Values["m1"].Actual)
	}
	if second.Values["m2"].Plan != 0 {
		t.Fatalf("m2 plan = %v, want 0 (absent field)", second.Values["m2"].Plan)
	}
}

func TestParseFileSkipsMalformedLines(t *testing.T) {
	path := writeExport(t, `not json at all
{"owner_id":"","date":"2024-01-01","values":{"m1":{"actual":1}}}
{"owner_id":"u1","date":"January 1st","values":{"m1":{"actual":1}}}
{"owner_id":"u1","date":"2024-01-01","values":{}}
{"owner_id":"u1","date":"2024-01-01","values":{"m1":{"actual":5}}}
`)

	result := ParseFile(path)
	if result.Err != nil {
		t.Fatalf("ParseFile: %v", result.Err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("parsed %d records, want 1", len(result.Records))
	}
	if result.ParseErrors != 4 {
		t.Fatalf("parse errors = %d, want 4", result.ParseErrors)
	}
}

func TestParseFileLastLineWinsPerDay(t *testing.T) {
	path := writeExport(t, `{"owner_id":"u1","date":"2024-01-01","values":{"m1":{"actual":1}}}
{"owner_id":"u1","date":"2024-01-01","values":{"m1":{"actual":9}}}
`)

	result := ParseFile(path)
	if len(result.Records) != 1 {
		t.Fatalf("parsed %d records, want 1 (same day deduplicated)", len(result.Records))
	}
	if result.Records[0].Values["m1"].Actual != 9 {
		t.Fatalf("m1 actual = %v, want 9 (last line wins)", result.Records[0].Values["m1"].Actual)
	}
}

// savingStub records saves and can fail on demand.
type savingStub struct {
	saved []model.DailyRecord
	err   error
}

func (s *savingStub) SaveDailyRecord(rec model.DailyRecord) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, rec)
	return nil
}

func TestImport(t *testing.T) {
	path := writeExport(t, `{"owner_id":"u1","date":"2024-01-01","values":{"m1":{"actual":1}}}
{"owner_id":"u2","date":"2024-01-01","values":{"m1":{"actual":2}}}
`)

	stub := &savingStub{}
	result, written, err := Import(stub, path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if written != 2 || len(stub.saved) != 2 {
		t.Fatalf("written = %d, saved = %d, want 2", written, len(stub.saved))
	}
	if result.ParseErrors != 0 {
		t.Fatalf("parse errors = %d", result.ParseErrors)
	}
}

func TestImportStopsOnStoreError(t *testing.T) {
	path := writeExport(t, `{"owner_id":"u1","date":"2024-01-01","values":{"m1":{"actual":1}}}
`)

	stub := &savingStub{err: errors.New("disk full")}
	_, written, err := Import(stub, path)
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
	if written != 0 {
		t.Fatalf("written = %d, want 0", written)
	}
}
