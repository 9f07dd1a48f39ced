package db

// SchemaSQL contains the plan-graph schema initialization SQL.
//
// Commands and plans are content-addressed: a command record id is the
// hash of its normalized text, a plan record id is the hash of its
// canonical JSON. UPSERT by id therefore merges instead of duplicating.
// Success and failure edges carry the per-pair counters; the unique_key
// index guarantees at most one edge of each kind per (command, plan) pair.
const SchemaSQL = `
    -- ==========================================================================
    -- COMMAND TABLE (normalized user request text)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS command SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS text ON command TYPE string;
    DEFINE FIELD IF NOT EXISTS created ON command TYPE datetime DEFAULT time::now();
    DEFINE INDEX IF NOT EXISTS command_text ON command FIELDS text UNIQUE;

    -- ==========================================================================
    -- PLAN TABLE (canonical JSON of an ordered tool-call list)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS plan SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS plan_json ON plan TYPE string;
    DEFINE FIELD IF NOT EXISTS created ON plan TYPE datetime DEFAULT time::now();

    -- ==========================================================================
    -- SUCCESS EDGES
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS succeeded TYPE RELATION IN command OUT plan SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS executions ON succeeded TYPE int DEFAULT 1;
    DEFINE FIELD IF NOT EXISTS last_executed ON succeeded TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS unique_key ON succeeded VALUE <string>string::concat(<string>in, "->", <string>out);
    DEFINE INDEX IF NOT EXISTS unique_success ON succeeded FIELDS unique_key UNIQUE;

    -- ==========================================================================
    -- FAILURE EDGES
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS failed TYPE RELATION IN command OUT plan SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS failures ON failed TYPE int DEFAULT 1;
    DEFINE FIELD IF NOT EXISTS last_failed ON failed TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS last_feedback ON failed TYPE string;
    DEFINE FIELD IF NOT EXISTS unique_key ON failed VALUE <string>string::concat(<string>in, "->", <string>out);
    DEFINE INDEX IF NOT EXISTS unique_failure ON failed FIELDS unique_key UNIQUE;
`
