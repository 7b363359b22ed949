package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/erathia/careerdoc/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the database currently holds",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(cfg.DatabasePath, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Database: %s\n", cfg.DatabasePath)
		fmt.Printf("  files:     %d\n", stats.TotalFiles)
		fmt.Printf("  documents: %d\n", stats.TotalDocuments)
		fmt.Printf("  chunks:    %d\n", stats.TotalChunks)
		fmt.Printf("  sessions:  %d\n", stats.TotalSessions)

		if len(stats.DocumentTypes) > 0 {
			fmt.Println("  document types:")
			types := make([]string, 0, len(stats.DocumentTypes))
			for docType := range stats.DocumentTypes {
				types = append(types, docType)
			}
			sort.Strings(types)
			for _, docType := range types {
				fmt.Printf("    %-16s %d\n", docType, stats.DocumentTypes[docType])
			}
		}
		return nil
	},
}
