package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the database to the sample customers and tickets",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SeedDefaults(cmd.Context()); err != nil {
			return err
		}
		printStatus("✓", "Database seeded at "+cfg.DatabaseURL, color.FgGreen)
		return nil
	},
}
