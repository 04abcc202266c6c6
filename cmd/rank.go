package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fieldops/app"
	"github.com/kilianp07/fieldops/config"
	"github.com/kilianp07/fieldops/infra/logger"
)

var rankDate string

var rankCmd = &cobra.Command{
	Use:   "rank <dispatch number>",
	Short: "Rank technicians for a dispatch",
	Args:  cobra.ExactArgs(1),
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankDate, "date", "", "target date (YYYY-MM-DD), defaults to the dispatch's scheduled date")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("rank-command").Errorf("service close: %v", err)
		}
	}()

	text := fmt.Sprintf("assign dispatch %s", args[0])
	if rankDate != "" {
		text = fmt.Sprintf("%s on %s", text, rankDate)
	}
	rep := svc.Manager.Handle(cmd.Context(), text)
	fmt.Fprintln(cmd.OutOrStdout(), rep.Text)
	if rep.Confirm != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTo confirm: %s\n", rep.Confirm)
	}
	return nil
}
