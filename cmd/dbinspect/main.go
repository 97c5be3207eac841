// dbinspect opens a shelving database image read-only and reports what is
// inside, without going through the running service.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	_ "modernc.org/sqlite"
)

const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

var flagData string

var rootCmd = &cobra.Command{
	Use:   "dbinspect [check|users]",
	Short: "Read-only inspection of a database image",
	Long: `dbinspect opens an exported database image read-only and prints either
per-table row counts (check, the default) or the full users table.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagData == "" {
			cmd.SilenceUsage = false
			return fmt.Errorf("--data <path-to-db-file> is required")
		}

		mode := "check"
		if len(args) == 1 {
			mode = args[0]
		}

		db, err := openReadOnly(flagData)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUserError)
		}
		defer db.Close()

		switch mode {
		case "check":
			err = runCheck(db, flagData)
		case "users":
			err = runUsers(db)
		default:
			cmd.SilenceUsage = false
			return fmt.Errorf("unknown mode %q (want check or users)", mode)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitSysError)
		}
		return nil
	},
}

// openReadOnly attaches to the image without taking write locks. A missing
// file gets a hint listing image files in the current directory, since the
// common mistake is pointing at the wrong export.
func openReadOnly(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		hint := localImageHint()
		return nil, fmt.Errorf("file not found: %q%s", path, hint)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connection error: %w", err)
	}
	return db, nil
}

func localImageHint() string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return ""
	}
	var found []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if ext == ".db" || ext == ".sqlite" || ext == ".sqlite3" {
			found = append(found, e.Name())
		}
	}
	if len(found) == 0 {
		return "\nNo image files found in the current directory. Check your Downloads folder for the exported backup."
	}
	return "\nFound these image files in the current directory:\n  " + strings.Join(found, "\n  ")
}

func main() {
	rootCmd.Flags().StringVar(&flagData, "data", "", "path to the database image file")
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitUserError)
	}
	os.Exit(exitSuccess)
}
