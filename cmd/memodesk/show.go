package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/memodesk/internal/format"
)

var (
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a memo",
	Long:  `Show a memo with its review history. Outputs a summary by default, or the JSON object with --json.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		app := openApp(cfg, true)
		defer app.Close()

		it, err := app.Data.GetItem(context.Background(), args[0])
		if err != nil {
			fatal("Error reading memo", err)
		}

		if showJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(it); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		fmt.Printf("%s\n", it.Subject)
		fmt.Printf("  id:        %s\n", it.ID)
		fmt.Printf("  owner:     %s\n", it.Owner)
		fmt.Printf("  status:    %s (%s)\n", it.Status, it.ReviewStatus)
		if it.ReferenceNumber != "" {
			fmt.Printf("  reference: %s\n", it.ReferenceNumber)
		}
		if it.CreatedAt != nil {
			fmt.Printf("  created:   %s\n", format.DisplayDate(*it.CreatedAt))
		}
		for _, a := range it.Attachments {
			fmt.Printf("  file:      %s\n", app.Files.URLFor(a.Ref))
		}
		if body := it.Body(); body != "" {
			fmt.Printf("\n%s\n", body)
		}
		for _, r := range it.Reviews {
			fmt.Printf("\n- %s, %s: %s\n", r.Reviewer, format.DisplayDate(r.Date), r.Comments)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
