package storage

import (
	_ "embed"
)

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      name,
                      source_path,
                      columns)
VALUES (?, ?, ?)`

	selectSessionSQL = `
SELECT
    s.id,
    s.created_at,
    s.name,
    s.source_path,
    s.columns,
    COUNT(a.seq),
    MIN(a.time),
    MAX(a.time)
FROM sessions s
LEFT JOIN accel_samples a ON a.session_id = s.id
WHERE
    s.id = ?
GROUP BY s.id`

	selectSessionsSQL = `
SELECT
    s.id,
    s.created_at,
    s.name,
    s.source_path,
    s.columns,
    COUNT(a.seq),
    MIN(a.time),
    MAX(a.time)
FROM sessions s
LEFT JOIN accel_samples a ON a.session_id = s.id
GROUP BY s.id
ORDER BY s.id`

	selectMaxSeqSQL = `
SELECT COALESCE(MAX(seq), -1)
FROM accel_samples
WHERE session_id = ?`

	insertSampleSQL = `
INSERT INTO accel_samples (session_id,
                           seq,
                           time,
                           x,
                           y,
                           z)
VALUES (?, ?, ?, ?, ?, ?)`

	selectSamplesSQL = `
SELECT
    seq,
    time,
    x,
    y,
    z
FROM accel_samples
WHERE
    session_id = ?
    AND seq > ?
    AND time BETWEEN ? AND ?
ORDER BY seq
LIMIT ?`

	deleteSamplesSQL = `
DELETE FROM accel_samples
WHERE session_id = ?`

	deleteSessionSQL = `
DELETE FROM sessions
WHERE id = ?`

	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_accel_samples_session_time ON accel_samples (session_id, time)`
)

//go:embed schema.sql
var initSchemaSQL string
