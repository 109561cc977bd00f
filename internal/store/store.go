// Package store provides the SQLite-backed record store for planfact.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/planfacthq/planfact/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrOperationInFlight is returned when a write for the same target is
// already running on this store instance. Callers treat it as "already
// being handled" and drop the duplicate.
var ErrOperationInFlight = errors.New("store: operation already in flight")

// Store is the durable record store. Daily records, plan targets, and
// metric definitions live here; period summaries are cached snapshots.
type Store struct {
	db *sql.DB

	mu       sync.Mutex
	inFlight map[string]struct{} // operation+target dedup, instance-scoped
}

// Open opens or creates the store database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, inFlight: make(map[string]struct{})}, nil
}

// Close closes the store database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DefaultDBPath returns the platform-appropriate database location.
func DefaultDBPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "planfact", "planfact.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "planfact", "planfact.db")
}

// begin marks an operation in flight; returns false when a duplicate is
// already running.
func (s *Store) begin(opKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[opKey]; busy {
		return false
	}
	s.inFlight[opKey] = struct{}{}
	return true
}

func (s *Store) end(opKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, opKey)
}

// SaveDailyRecord upserts one owner's record for one day: at most one
// record per (owner, date), replaced wholesale on edit.
func (s *Store) SaveDailyRecord(rec model.DailyRecord) error {
	date := model.Day(rec.Date).Format(model.DateFormat)
	opKey := "record:" + rec.OwnerID + ":" + date
	if !s.begin(opKey) {
		return ErrOperationInFlight
	}
	defer s.end(opKey)

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO daily_records (owner_id, date, updated_at)
		VALUES (?, ?, ?)`, rec.OwnerID, date, now)
	if err != nil {
		return err
	}

	// Replace the day's values wholesale.
	_, err = tx.Exec("DELETE FROM record_values WHERE owner_id = ? AND date = ?", rec.OwnerID, date)
	if err != nil {
		return err
	}

	for metricID, v := range rec.Values {
		_, err = tx.Exec(`INSERT INTO record_values (owner_id, date, metric_id, plan, actual)
			VALUES (?, ?, ?, ?, ?)`, rec.OwnerID, date, metricID, v.Plan, v.Actual)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteDailyRecord removes one owner's record for one day. Records are
// only ever deleted explicitly.
func (s *Store) DeleteDailyRecord(ownerID string, date time.Time) error {
	day := model.Day(date).Format(model.DateFormat)
	opKey := "record:" + ownerID + ":" + day
	if !s.begin(opKey) {
		return ErrOperationInFlight
	}
	defer s.end(opKey)

	_, err := s.db.Exec("DELETE FROM daily_records WHERE owner_id = ? AND date = ?", ownerID, day)
	return err
}

// FetchDailyRecords returns an owner's records with dates in [start, end].
func (s *Store) FetchDailyRecords(ownerID string, start, end time.Time) ([]model.DailyRecord, error) {
	first := model.Day(start).Format(model.DateFormat)
	last := model.Day(end).Format(model.DateFormat)

	rows, err := s.db.Query(`SELECT date FROM daily_records
		WHERE owner_id = ? AND date >= ? AND date <= ? ORDER BY date`, ownerID, first, last)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.DailyRecord
	index := make(map[string]int)
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, err
		}
		date, err := time.Parse(model.DateFormat, dateStr)
		if err != nil {
			continue
		}
		index[dateStr] = len(records)
		records = append(records, model.DailyRecord{
			OwnerID: ownerID,
			Date:    date,
			Values:  make(map[string]model.MetricValue),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	valueRows, err := s.db.Query(`SELECT date, metric_id, plan, actual FROM record_values
		WHERE owner_id = ? AND date >= ? AND date <= ?`, ownerID, first, last)
	if err != nil {
		return nil, err
	}
	defer func() { _ = valueRows.Close() }()

	for valueRows.Next() {
		var dateStr, metricID string
		var v model.MetricValue
		if err := valueRows.Scan(&dateStr, &metricID, &v.Plan, &v.Actual); err != nil {
			return nil, err
		}
		if i, ok := index[dateStr]; ok {
			records[i].Values[metricID] = v
		}
	}

	return records, valueRows.Err()
}

// ListOwners returns every owner with at least one daily record.
func (s *Store) ListOwners() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT owner_id FROM daily_records ORDER BY owner_id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

// SavePlanTarget upserts the target for (metric, owner).
func (s *Store) SavePlanTarget(t model.PlanTarget) error {
	opKey := "target:" + t.OwnerID + ":" + t.MetricID
	if !s.begin(opKey) {
		return ErrOperationInFlight
	}
	defer s.end(opKey)

	start, end := "", ""
	if !t.StartDate.IsZero() {
		start = model.Day(t.StartDate).Format(model.DateFormat)
	}
	if !t.EndDate.IsZero() {
		end = model.Day(t.EndDate).Format(model.DateFormat)
	}

	_, err := s.db.Exec(`INSERT OR REPLACE INTO plan_targets
		(metric_id, owner_id, target, period, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.MetricID, t.OwnerID, t.Target, string(t.Period), start, end, t.Status)
	return err
}

// DeletePlanTarget removes a target; projections for the metric stop
// until a new one is set.
func (s *Store) DeletePlanTarget(ownerID, metricID string) error {
	opKey := "target:" + ownerID + ":" + metricID
	if !s.begin(opKey) {
		return ErrOperationInFlight
	}
	defer s.end(opKey)

	_, err := s.db.Exec("DELETE FROM plan_targets WHERE owner_id = ? AND metric_id = ?", ownerID, metricID)
	return err
}

// FetchPlanTargets returns all of an owner's targets, any status.
func (s *Store) FetchPlanTargets(ownerID string) ([]model.PlanTarget, error) {
	rows, err := s.db.Query(`SELECT metric_id, target, period, start_date, end_date, status
		FROM plan_targets WHERE owner_id = ? ORDER BY metric_id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var targets []model.PlanTarget
	for rows.Next() {
		t := model.PlanTarget{OwnerID: ownerID}
		var period string
		var start, end sql.NullString
		if err := rows.Scan(&t.MetricID, &t.Target, &period, &start, &end, &t.Status); err != nil {
			return nil, err
		}
		t.Period = model.PlanPeriod(period)
		if start.Valid && start.String != "" {
			t.StartDate, _ = time.Parse(model.DateFormat, start.String)
		}
		if end.Valid && end.String != "" {
			t.EndDate, _ = time.Parse(model.DateFormat, end.String)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// SaveMetric upserts a metric definition.
func (s *Store) SaveMetric(m model.MetricDefinition) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO metrics (id, name, description, objective_id)
		VALUES (?, ?, ?, ?)`, m.ID, m.Name, m.Description, nullable(m.ObjectiveID))
	return err
}

// DeleteMetric removes a metric definition.
func (s *Store) DeleteMetric(id string) error {
	_, err := s.db.Exec("DELETE FROM metrics WHERE id = ?", id)
	return err
}

// ListMetrics returns all metric definitions.
func (s *Store) ListMetrics() ([]model.MetricDefinition, error) {
	rows, err := s.db.Query("SELECT id, name, description, objective_id FROM metrics ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []model.MetricDefinition
	for rows.Next() {
		var m model.MetricDefinition
		var desc, objective sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &desc, &objective); err != nil {
			return nil, err
		}
		m.Description = desc.String
		m.ObjectiveID = objective.String
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// SaveObjective upserts an objective.
func (s *Store) SaveObjective(o model.Objective) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO objectives (id, name) VALUES (?, ?)", o.ID, o.Name)
	return err
}

// DeleteObjective removes an objective. Metrics under it keep existing
// and simply become ungrouped.
func (s *Store) DeleteObjective(id string) error {
	_, err := s.db.Exec("DELETE FROM objectives WHERE id = ?", id)
	return err
}

// ListObjectives returns all objectives.
func (s *Store) ListObjectives() ([]model.Objective, error) {
	rows, err := s.db.Query("SELECT id, name FROM objectives ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var objectives []model.Objective
	for rows.Next() {
		var o model.Objective
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		objectives = append(objectives, o)
	}
	return objectives, rows.Err()
}

// SavePeriodSummary persists a snapshot. The snapshot is a cached
// artifact; the daily records stay authoritative.
func (s *Store) SavePeriodSummary(summary model.PeriodSummary) error {
	start := model.Day(summary.StartDate).Format(model.DateFormat)
	end := model.Day(summary.EndDate).Format(model.DateFormat)

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := summary.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO period_summaries (owner_id, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?)`, summary.OwnerID, start, end, createdAt.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DELETE FROM summary_values WHERE owner_id = ? AND start_date = ? AND end_date = ?`,
		summary.OwnerID, start, end)
	if err != nil {
		return err
	}

	for metricID, v := range summary.Metrics {
		_, err = tx.Exec(`INSERT INTO summary_values (owner_id, start_date, end_date, metric_id, plan, actual)
			VALUES (?, ?, ?, ?, ?, ?)`, summary.OwnerID, start, end, metricID, v.Plan, v.Actual)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FetchPeriodSummary returns a persisted snapshot, or nil when none exists.
func (s *Store) FetchPeriodSummary(ownerID string, start, end time.Time) (*model.PeriodSummary, error) {
	first := model.Day(start).Format(model.DateFormat)
	last := model.Day(end).Format(model.DateFormat)

	var createdStr string
	err := s.db.QueryRow(`SELECT created_at FROM period_summaries
		WHERE owner_id = ? AND start_date = ? AND end_date = ?`, ownerID, first, last).Scan(&createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	summary := &model.PeriodSummary{
		OwnerID:   ownerID,
		StartDate: model.Day(start),
		EndDate:   model.Day(end),
		Metrics:   make(map[string]model.MetricSummary),
	}
	summary.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)

	rows, err := s.db.Query(`SELECT metric_id, plan, actual FROM summary_values
		WHERE owner_id = ? AND start_date = ? AND end_date = ?`, ownerID, first, last)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var metricID string
		var v model.MetricSummary
		if err := rows.Scan(&metricID, &v.Plan, &v.Actual); err != nil {
			return nil, err
		}
		summary.Metrics[metricID] = v
	}
	return summary, rows.Err()
}

// RecordCount returns the number of stored daily records.
func (s *Store) RecordCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM daily_records").Scan(&count)
	return count, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
