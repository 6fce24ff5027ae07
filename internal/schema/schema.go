// Package schema owns the application's table catalog: the fixed allowlist of
// identifiers the query layer may reference, and the DDL used to bootstrap an
// empty database. Table and column names cannot travel through bound
// parameters, so this allowlist is the sole injection defense for identifiers.
package schema

import (
	"sort"
	"strings"
)

// Version is the current schema version recorded in the schema_version table.
const Version = 3

// tables is the canonical catalog. Keys are lowercase; validation is
// case-insensitive and normalizes to these spellings.
var tables = map[string]struct{}{
	"areas":              {},
	"categories":         {},
	"folders":            {},
	"items":              {},
	"cloud_drives":       {},
	"area_storage":       {},
	"organization_rules": {},
	"organized_files":    {},
	"scanned_files":      {},
	"watched_folders":    {},
	"watch_activity":     {},
	"activity_log":       {},
	"statistics":         {},
	"schema_version":     {},
}

// Tables returns the allowlisted table names in sorted order.
func Tables() []string {
	out := make([]string, 0, len(tables))
	for name := range tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Known reports whether name is an allowlisted table, ignoring case.
func Known(name string) bool {
	_, ok := tables[strings.ToLower(name)]
	return ok
}

// DDL returns the bootstrap statements for an empty database, in dependency
// order. Statements use IF NOT EXISTS so EnsureSchema is idempotent.
func DDL() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS areas (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			color TEXT,
			icon TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			area_id INTEGER NOT NULL REFERENCES areas(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS folders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category_id INTEGER REFERENCES categories(id) ON DELETE CASCADE,
			parent_id INTEGER REFERENCES folders(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			path TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			folder_id INTEGER REFERENCES folders(id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			size INTEGER,
			mime_type TEXT,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			modified_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS cloud_drives (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			provider TEXT NOT NULL,
			root_path TEXT NOT NULL,
			display_name TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS area_storage (
			area_id INTEGER NOT NULL REFERENCES areas(id) ON DELETE CASCADE,
			drive_id INTEGER NOT NULL REFERENCES cloud_drives(id) ON DELETE CASCADE,
			quota_bytes INTEGER,
			PRIMARY KEY (area_id, drive_id)
		)`,
		`CREATE TABLE IF NOT EXISTS organization_rules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			area_id INTEGER REFERENCES areas(id) ON DELETE CASCADE,
			pattern TEXT NOT NULL,
			target_folder_id INTEGER REFERENCES folders(id) ON DELETE CASCADE,
			enabled INTEGER NOT NULL DEFAULT 1,
			priority INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS organized_files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			rule_id INTEGER REFERENCES organization_rules(id) ON DELETE SET NULL,
			source_path TEXT NOT NULL,
			target_path TEXT NOT NULL,
			organized_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS scanned_files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			size INTEGER,
			mime_type TEXT,
			scanned_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS watched_folders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			recursive INTEGER NOT NULL DEFAULT 1,
			enabled INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS watch_activity (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			watched_folder_id INTEGER REFERENCES watched_folders(id) ON DELETE CASCADE,
			event TEXT NOT NULL,
			path TEXT NOT NULL,
			occurred_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS activity_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			action TEXT NOT NULL,
			entity TEXT,
			entity_id INTEGER,
			detail TEXT,
			logged_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS statistics (
			key TEXT PRIMARY KEY,
			value TEXT,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	}
}
