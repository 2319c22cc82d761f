package history

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at TIMESTAMP NOT NULL,
    agent_id TEXT,
    agent_name TEXT,
    model TEXT,
    search_tool BOOLEAN DEFAULT FALSE,
    prompt_count INTEGER DEFAULT 0,
    trial_count INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

CREATE TABLE IF NOT EXISTS results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(id),
    question TEXT NOT NULL,
    baseline_seconds REAL,
    observed_seconds REAL,
    response_length INTEGER,
    limitation_flags TEXT,
    expected_behavior TEXT,
    trial INTEGER,
    error TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id);
`
