package sqldb

import (
	"fmt"
	"regexp"
)

// Dialect captures the SQL differences between backends.
type Dialect struct {
	// Name identifies the dialect in error messages.
	Name string

	// Placeholder returns the bind parameter for the n-th argument (1-based).
	Placeholder func(n int) string

	// MemoryTableDDL and ChatTableDDL are CREATE TABLE templates taking the table name.
	MemoryTableDDL string
	ChatTableDDL   string

	// Contains returns a condition that holds when needle occurs in haystack.
	// Both arguments are SQL expressions (a column or a placeholder).
	Contains func(haystack, needle string) string
}

// questionMark is the placeholder style of MySQL and SQLite.
func questionMark(int) string { return "?" }

// MySQL is the dialect for MySQL-compatible servers.
var MySQL = Dialect{
	Name:        "mysql",
	Placeholder: questionMark,
	MemoryTableDDL: `
		CREATE TABLE IF NOT EXISTS %s (
			id INT AUTO_INCREMENT PRIMARY KEY,
			memory_key TEXT NOT NULL,
			memory_value TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	ChatTableDDL: `
		CREATE TABLE IF NOT EXISTS %s (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_message TEXT NOT NULL,
			assistant_reply TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	Contains: func(haystack, needle string) string {
		return fmt.Sprintf("INSTR(%s, %s) > 0", haystack, needle)
	},
}

// Postgres is the dialect for PostgreSQL.
var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	MemoryTableDDL: `
		CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			memory_key TEXT NOT NULL,
			memory_value TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
	ChatTableDDL: `
		CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			user_message TEXT NOT NULL,
			assistant_reply TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
	Contains: func(haystack, needle string) string {
		return fmt.Sprintf("POSITION(%s IN %s) > 0", needle, haystack)
	},
}

// SQLite is the dialect for SQLite.
var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: questionMark,
	MemoryTableDDL: `
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			memory_key TEXT NOT NULL,
			memory_value TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	ChatTableDDL: `
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_message TEXT NOT NULL,
			assistant_reply TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	Contains: func(haystack, needle string) string {
		return fmt.Sprintf("instr(%s, %s) > 0", haystack, needle)
	},
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// validTableName reports whether name can be interpolated into SQL.
func validTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}
