// Package importer parses JSON-lines record exports and loads them into
// the store. Each line is one daily record:
//
//	{"owner_id":"u1","date":"2024-01-02","values":{"m1":{"plan":10,"actual":8}}}
package importer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/planfacthq/planfact/internal/model"
)

// line is the wire shape of one exported record.
type line struct {
	OwnerID string `json:"owner_id"`
	Date    string `json:"date"`
	Values  map[string]struct {
		Plan   float64 `json:"plan"`
		Actual float64 `json:"actual"`
	} `json:"values"`
}

// ParseResult holds the outcome of parsing one export file.
type ParseResult struct {
	Records     []model.DailyRecord
	ParseErrors int // malformed lines skipped
	Err         error
}

// ParseFile reads a JSONL export file. Malformed lines are counted and
// skipped rather than aborting the whole import; a later line for the
// same (owner, date) replaces an earlier one, matching upsert semantics.
func ParseFile(path string) ParseResult {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	var result ParseResult
	index := make(map[string]int) // owner|date -> position in Records

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var l line
		if err := json.Unmarshal(raw, &l); err != nil {
			result.ParseErrors++
			continue
		}

		rec, ok := toRecord(l)
		if !ok {
			result.ParseErrors++
			continue
		}

		key := rec.OwnerID + "|" + rec.Date.Format(model.DateFormat)
		if i, seen := index[key]; seen {
			result.Records[i] = rec
			continue
		}
		index[key] = len(result.Records)
		result.Records = append(result.Records, rec)
	}

	if err := scanner.Err(); err != nil {
		result.Err = fmt.Errorf("reading %s: %w", path, err)
	}
	return result
}

// toRecord validates and converts one parsed line.
func toRecord(l line) (model.DailyRecord, bool) {
	if l.OwnerID == "" || len(l.Values) == 0 {
		return model.DailyRecord{}, false
	}

	date, err := time.Parse(model.DateFormat, l.Date)
	if err != nil {
		return model.DailyRecord{}, false
	}

	values := make(map[string]model.MetricValue, len(l.Values))
	for metricID, v := range l.Values {
		if metricID == "" {
			continue
		}
		values[metricID] = model.MetricValue{Plan: v.Plan, Actual: v.Actual}
	}
	if len(values) == 0 {
		return model.DailyRecord{}, false
	}

	return model.DailyRecord{OwnerID: l.OwnerID, Date: date, Values: values}, true
}

// RecordStore is the subset of the store the importer writes through.
type RecordStore interface {
	SaveDailyRecord(rec model.DailyRecord) error
}

// Import parses a file and upserts every record. Returns the parse
// result plus the count actually written; the first store error aborts.
func Import(store RecordStore, path string) (ParseResult, int, error) {
	result := ParseFile(path)
	if result.Err != nil {
		return result, 0, result.Err
	}

	written := 0
	for _, rec := range result.Records {
		if err := store.SaveDailyRecord(rec); err != nil {
			return result, written, fmt.Errorf("saving record %s/%s: %w",
				rec.OwnerID, rec.Date.Format(model.DateFormat), err)
		}
		written++
	}
	return result, written, nil
}
