package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS objectives (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS metrics (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    description          TEXT,
    objective_id         TEXT REFERENCES objectives(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS daily_records (
    owner_id             TEXT NOT NULL,
    date                 TEXT NOT NULL,
    updated_at           TEXT NOT NULL,
    PRIMARY KEY (owner_id, date)
);

CREATE TABLE IF NOT EXISTS record_values (
    owner_id             TEXT NOT NULL,
    date                 TEXT NOT NULL,
    metric_id            TEXT NOT NULL,
    plan                 REAL NOT NULL DEFAULT 0,
    actual               REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (owner_id, date, metric_id),
    FOREIGN KEY (owner_id, date) REFERENCES daily_records(owner_id, date) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS plan_targets (
    metric_id            TEXT NOT NULL,
    owner_id             TEXT NOT NULL,
    target               REAL NOT NULL,
    period               TEXT NOT NULL,
    start_date           TEXT,
    end_date             TEXT,
    status               TEXT NOT NULL DEFAULT 'active',
    PRIMARY KEY (metric_id, owner_id)
);

CREATE TABLE IF NOT EXISTS period_summaries (
    owner_id             TEXT NOT NULL,
    start_date           TEXT NOT NULL,
    end_date             TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    PRIMARY KEY (owner_id, start_date, end_date)
);

CREATE TABLE IF NOT EXISTS summary_values (
    owner_id             TEXT NOT NULL,
    start_date           TEXT NOT NULL,
    end_date             TEXT NOT NULL,
    metric_id            TEXT NOT NULL,
    plan                 REAL NOT NULL DEFAULT 0,
    actual               REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (owner_id, start_date, end_date, metric_id),
    FOREIGN KEY (owner_id, start_date, end_date)
        REFERENCES period_summaries(owner_id, start_date, end_date) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_records_date ON daily_records(date);
CREATE INDEX IF NOT EXISTS idx_targets_owner ON plan_targets(owner_id);
`
