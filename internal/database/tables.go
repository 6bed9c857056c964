package database

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/lawnchairsociety/loottable/internal/loot"
)

// ErrTableNotFound is returned when no rows exist for a loot table name.
var ErrTableNotFound = errors.New("loot table not found")

// Record is one stored loot row.
type Record struct {
	Name  string
	Tries int
}

// ImportTable replaces the stored rows of the named table with entries, in order.
func (d *Database) ImportTable(name string, entries []loot.Entry) error {
	if name == "" {
		return fmt.Errorf("loot table name is required")
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(d.qb.Build(`DELETE FROM loot_entries WHERE table_name = ?`), name); err != nil {
		return fmt.Errorf("failed to clear loot table %q: %w", name, err)
	}

	insert := d.qb.Build(`INSERT INTO loot_entries (table_name, position, name, tries) VALUES (?, ?, ?, ?)`)
	for i, entry := range entries {
		if _, err := tx.Exec(insert, name, i, entry.Name(), entry.Tries()); err != nil {
			return fmt.Errorf("failed to insert %q into loot table %q: %w", entry.Name(), name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit loot table %q: %w", name, err)
	}
	return nil
}

// Records returns the stored rows of the named table in position order.
func (d *Database) Records(name string) ([]Record, error) {
	rows, err := d.db.Query(
		d.qb.Build(`SELECT name, tries FROM loot_entries WHERE table_name = ? ORDER BY position`),
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query loot table %q: %w", name, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Name, &r.Tries); err != nil {
			return nil, fmt.Errorf("failed to scan loot record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return records, nil
}

// TableNames lists the stored loot tables.
func (d *Database) TableNames() ([]string, error) {
	rows, err := d.db.Query(`SELECT DISTINCT table_name FROM loot_entries ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list loot tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan loot table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteTable removes every stored row of the named table.
func (d *Database) DeleteTable(name string) error {
	result, err := d.db.Exec(d.qb.Build(`DELETE FROM loot_entries WHERE table_name = ?`), name)
	if err != nil {
		return fmt.Errorf("failed to delete loot table %q: %w", name, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return nil
}

// Source returns a loot source reading the named table.
func (d *Database) Source(name string) *TableSource {
	return &TableSource{db: d, name: name}
}

// TableSource serves a stored loot table as "name,tries" lines.
type TableSource struct {
	db   *Database
	name string
}

// Lines renders each stored row as a loot record line.
func (s *TableSource) Lines() ([]string, error) {
	records, err := s.db.Records(s.name)
	if err != nil {
		return nil, &loot.SourceUnavailableError{Source: "database table " + s.name, Err: err}
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.Name + "," + strconv.Itoa(r.Tries)
	}
	return lines, nil
}

var _ loot.Source = (*TableSource)(nil)
