package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alexander-D-Karpov/tracklist/internal/codecs"
	"github.com/Alexander-D-Karpov/tracklist/internal/services"
)

var codecsCmd = &cobra.Command{
	Use:   "codecs <file>...",
	Short: "Check that files can be decoded and install any missing codecs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		svc, err := services.Open(cfg, services.Options{Logger: log})
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()

		out := cmd.OutOrStdout()
		for _, r := range svc.Music.Probe(args) {
			var diag *codecs.Diagnostic
			switch {
			case r.Err == nil:
				fmt.Fprintf(out, "ok       %s (%s)\n", r.Path, r.Duration.Round(time.Second))
			case errors.As(r.Err, &diag) && codecs.IsMissingCodec(diag):
				fmt.Fprintf(out, "missing  %s (%s)\n", r.Path, diag.Description)
			default:
				fmt.Fprintf(out, "error    %s: %v\n", r.Path, r.Err)
			}
		}
		svc.Codecs.Wait()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(codecsCmd)
}
