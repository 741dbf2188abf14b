package storage

const schema = `
-- The 'kv' table holds one opaque blob per key. The deck collection lives
-- under a single key; there is deliberately no schema for its contents here.
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
