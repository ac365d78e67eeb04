package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/franz/songbook/internal/store"
	"github.com/franz/songbook/internal/util"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the built index to a SQLite snapshot",
	Long: `Build the index from the source files and write it to a SQLite
database for inspection with other tools. The snapshot is replaced on every
export; songbook itself never reads it back.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("out", "o", "songbook.db", "SQLite database to write")
}

func runExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	sess, err := loadSession(context.Background())
	if err != nil {
		return err
	}
	defer sess.Close()

	db, err := store.Open(out)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.ExportIndex(sess.index, sess.report); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := db.CheckIntegrity(); err != nil {
		return err
	}

	for _, table := range []string{"books", "songs", "titles", "corpus", "attachments", "sources"} {
		n, err := db.CountRows(table)
		if err != nil {
			return err
		}
		util.InfoLog("  %-12s %s rows", table, humanize.Comma(int64(n)))
	}
	util.SuccessLog("✅ Exported %d songs to %s", sess.index.Len(), out)
	return nil
}
