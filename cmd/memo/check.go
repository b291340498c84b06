package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"voice-memo-go/internal/prereq"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify recording prerequisites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checks := prereq.New(a.cfg.PrereqTools, a.cfg.PrereqEnv).Run()
			a.ui.Heading("Checking prerequisites...")
			issues := 0
			for _, c := range checks {
				a.ui.Check(c.OK, c.Name, c.Hint)
				if !c.OK {
					issues++
				}
			}
			if issues > 0 {
				a.ui.Fail("%d issue(s) found", issues)
				return fmt.Errorf("%w: %d missing", errReported, issues)
			}
			a.ui.OK("All prerequisites satisfied")
			return nil
		},
	}
}
