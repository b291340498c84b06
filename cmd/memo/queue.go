package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"voice-memo-go/internal/queue"
	"voice-memo-go/internal/report"
)

func newQueueCmd(a *app) *cobra.Command {
	var (
		xlsx   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List filed memos, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := queue.List(a.cfg.QueueDir)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				a.ui.Info("Queue is empty: %s", a.cfg.QueueDir)
			} else {
				a.ui.Heading("%d memo(s) in %s", len(entries), a.cfg.QueueDir)
				for _, e := range entries {
					fmt.Fprintf(a.stdout, "%-40s %-10s %10s  %s\n",
						e.Name, e.Intent, queue.FormatSize(e.AudioBytes), queue.Preview(e.Transcript, 60))
				}
				sum := report.Summarize(entries)
				a.ui.Row("total audio: %s, untranscribed: %d", queue.FormatSize(sum.AudioBytes), sum.Untranscribed)
			}

			if xlsx != "" {
				if err := report.ExportXLSX(xlsx, entries, a.log); err != nil {
					return err
				}
				a.ui.OK("Report written to: %s", xlsx)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the listing to this .xlsx workbook")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the queue folder layout",
		Long: `Create the queue directory plus processed/ and failed/ next to it,
each with a .gitkeep. Existing folders are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := queue.Init(a.cfg.QueueDir)
			if err != nil {
				return err
			}
			if len(created) == 0 {
				a.ui.Info("Queue layout already present")
				return nil
			}
			for _, d := range created {
				a.ui.OK("Created %s", d)
			}
			return nil
		},
	}
}
