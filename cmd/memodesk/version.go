package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/memodesk"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of memodesk",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("memodesk version %s\n", strings.TrimSpace(memodesk.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
