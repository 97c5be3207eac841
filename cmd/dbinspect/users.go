package main

import (
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"
)

// runUsers prints the users table, digests included. The tool is for local
// forensics on an exported image; there is nothing secret in a client-side
// digest.
func runUsers(db *sql.DB) error {
	fmt.Printf("\n--- LISTING USERS ---\n\n")

	rows, err := db.Query(`SELECT id, username, password FROM users`)
	if err != nil {
		return fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tPASSWORD")
	count := 0
	for rows.Next() {
		var id, username, password string
		if err := rows.Scan(&id, &username, &password); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, username, password)
		count++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d user(s)\n", count)
	return nil
}
