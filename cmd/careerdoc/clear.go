package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erathia/careerdoc/store"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored files, content, chunks, and sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearForce {
			fmt.Printf("This deletes everything in %s. Continue? [y/N] ", cfg.DatabasePath)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		db, err := store.Open(cfg.DatabasePath, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Database cleared.")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip the confirmation prompt")
}
