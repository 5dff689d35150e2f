package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/schemaform"
)

var (
	createSubject     string
	createStatus      string
	createDescription string
	createRef         string
	createAttach      []string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a memo",
	Long: `Create a memo owned by the current user. Files given with --attach are
uploaded to the store before the memo is saved.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if createSubject == "" {
			fmt.Println("Error: --subject is required")
			cmd.Usage()
			os.Exit(1)
		}

		cfg := loadConfig()
		app := openApp(cfg, true)
		defer app.Close()

		form := schemaform.NewForm(loadSchema(cfg))
		fields := map[string]string{
			"subject":     createSubject,
			"status":      createStatus,
			"description": createDescription,
		}
		for name, v := range fields {
			if v == "" {
				continue
			}
			if err := form.Set(name, v); err != nil {
				fatal("Invalid --"+name, err)
			}
		}
		if createRef != "" {
			if err := form.Prefill("referenceNumber", createRef); err != nil {
				fatal("Invalid --ref", err)
			}
		}
		if len(createAttach) > 0 {
			files := make([]memo.PendingFile, 0, len(createAttach))
			for _, path := range createAttach {
				files = append(files, localFile(path))
			}
			if err := form.AddFiles("attachments", files...); err != nil {
				fatal("Invalid --attach", err)
			}
		}

		var created memo.Item
		err := form.Submit(context.Background(), func(ctx context.Context, p schemaform.Payload) error {
			it, err := app.Data.Submit(ctx, p)
			created = it
			return err
		})
		if err != nil {
			fatal("Failed to create memo", err)
		}
		fmt.Println("Created memo", created.ID)
	},
}

// localFile describes path as a pending upload.
func localFile(path string) memo.PendingFile {
	info, err := os.Stat(path)
	if err != nil {
		fatal("Cannot attach "+path, err)
	}
	return memo.PendingFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createSubject, "subject", "", "Memo subject (required)")
	createCmd.Flags().StringVar(&createStatus, "status", "", "Status (default: draft)")
	createCmd.Flags().StringVar(&createDescription, "description", "", "Rich-text body")
	createCmd.Flags().StringVar(&createRef, "ref", "", "Reference number")
	createCmd.Flags().StringSliceVar(&createAttach, "attach", nil, "Files to attach")
}
