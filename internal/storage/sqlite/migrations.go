package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: groups and users must be created BEFORE the tables referencing
// them due to foreign key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    alias TEXT,
    group_id TEXT,
    active INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    group_id TEXT NOT NULL,
    amount REAL NOT NULL,
    category_id TEXT,
    description TEXT NOT NULL,
    personal INTEGER NOT NULL DEFAULT 0,
    store_name TEXT,
    notes TEXT,
    occurred_at INTEGER NOT NULL,
    month INTEGER NOT NULL,
    year INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS period_states (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    month INTEGER NOT NULL,
    year INTEGER NOT NULL,
    confirmations TEXT NOT NULL DEFAULT '{}',
    all_confirmed INTEGER NOT NULL DEFAULT 0,
    calculated INTEGER NOT NULL DEFAULT 0,
    debtor_id TEXT,
    creditor_id TEXT,
    debt_amount REAL NOT NULL DEFAULT 0,
    payment_status TEXT NOT NULL DEFAULT 'pending',
    payment_method TEXT,
    paid_at INTEGER,
    plan_id TEXT,
    calculated_at INTEGER,
    created_at INTEGER NOT NULL,
    UNIQUE (group_id, month, year),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS plans (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    debtor_id TEXT NOT NULL,
    creditor_id TEXT NOT NULL,
    total_amount REAL NOT NULL,
    installment_count INTEGER NOT NULL,
    frequency_days INTEGER NOT NULL,
    installment_amount REAL NOT NULL,
    paid_count INTEGER NOT NULL DEFAULT 0,
    paid_amount REAL NOT NULL DEFAULT 0,
    remaining_amount REAL NOT NULL,
    description TEXT,
    reason TEXT,
    first_due_at INTEGER NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    completed INTEGER NOT NULL DEFAULT 0,
    completed_at INTEGER,
    period_id TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (debtor_id) REFERENCES users(id),
    FOREIGN KEY (creditor_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS installments (
    id TEXT PRIMARY KEY,
    plan_id TEXT NOT NULL,
    number INTEGER NOT NULL,
    amount REAL NOT NULL,
    due_at INTEGER NOT NULL,
    state TEXT NOT NULL DEFAULT 'pending',
    paid_at INTEGER,
    payment_method TEXT,
    notes TEXT,
    confirmed INTEGER NOT NULL DEFAULT 0,
    confirmed_at INTEGER,
    created_at INTEGER NOT NULL,
    UNIQUE (plan_id, number),
    FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_users_group_id ON users(group_id);
CREATE INDEX IF NOT EXISTS idx_expenses_period ON expenses(group_id, year, month);
CREATE INDEX IF NOT EXISTS idx_period_states_group ON period_states(group_id);
CREATE INDEX IF NOT EXISTS idx_plans_group_id ON plans(group_id);
CREATE INDEX IF NOT EXISTS idx_plans_debtor ON plans(debtor_id);
CREATE INDEX IF NOT EXISTS idx_plans_creditor ON plans(creditor_id);
CREATE INDEX IF NOT EXISTS idx_installments_plan_id ON installments(plan_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
