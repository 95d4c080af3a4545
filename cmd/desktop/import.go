package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/services"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>...",
	Short: "Add the audio files found under each directory to the library",
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
		for _, dir := range args {
			res, err := svc.Music.Import(cmd.Context(), dir)
			if err != nil {
				return fmt.Errorf("import %s: %w", dir, err)
			}
			fmt.Fprintf(out, "%s: %d imported, %d failed, %d need codecs (%s)\n",
				dir, res.Imported, res.Failed, len(res.Missing), res.Elapsed.Round(time.Millisecond))
			for _, d := range res.Missing {
				log.Debug("missing codec", zap.String("path", d.Source), zap.String("detail", d.Detail))
			}
		}
		svc.Codecs.Wait()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
