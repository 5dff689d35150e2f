package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/memodesk/internal/platform"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the store and its services",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		app := openApp(cfg, true)
		defer app.Close()

		out, err := json.MarshalIndent(platform.Describe(app), "", "  ")
		if err != nil {
			fatal("Failed to encode state", err)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
