package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/okian/tonight/internal/domain/ranking"
)

//nolint:gochecknoglobals // Cobra boilerplate
var printRanked bool

//nolint:gochecknoglobals // Cobra boilerplate
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score the configured event files once",
	Long: `Run the pipeline once over the configured event files and write the
ranked events to the output file.

Example:
  tonight score --root ~/tonight --events 'events/*.json' --min-score 40
  tonight score --print | jq '.[0:5]'`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().BoolVar(&printRanked, "print", false, "Also print the ranked events as JSON to stdout")
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}

	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	if printRanked {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(ranking.Entries(res.Events)); err != nil {
			return err
		}
	}
	return nil
}
