package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	formJSON bool
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Print the fields of the create form",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fields := loadSchema(loadConfig()).Fields()

		if formJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(fields); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, f := range fields {
			flags := ""
			if f.ReadOnly {
				flags = " (read-only)"
			}
			fmt.Printf("%-20s %-9s span=%d%s\n", f.Label, f.Kind, f.Span, flags)
			for _, o := range f.Options {
				fmt.Printf("  - %s\n", o.Label)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(formCmd)
	formCmd.Flags().BoolVar(&formJSON, "json", false, "Output in JSON format")
}
