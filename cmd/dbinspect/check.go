package main

import (
	"database/sql"
	"fmt"
)

// runCheck prints per-table row counts for every user table in the image.
func runCheck(db *sql.DB, path string) error {
	fmt.Printf("\n--- INSPECTING DATABASE: %s ---\n\n", path)

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(tables) == 0 {
		fmt.Println("No tables found.")
		return nil
	}

	for _, table := range tables {
		var count int
		// Table names come from sqlite_master, not user input.
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", table)).Scan(&count); err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		fmt.Printf("TABLE [%-10s]: %d rows\n", table, count)
	}
	return nil
}
