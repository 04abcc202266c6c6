package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fieldops/app"
	"github.com/kilianp07/fieldops/config"
	"github.com/kilianp07/fieldops/infra/logger"
)

var assignCmd = &cobra.Command{
	Use:   "assign [command words...]",
	Short: "Run one free-text assignment command and print the report",
	Long: `Runs a single command against the CRM and prints the resulting report.

Examples:
  fieldops assign assign dispatch WO-1001 to Maria
  fieldops assign confirm assign WO-1001 to "Maria Lopez" at 09:00`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAssign,
}

func init() {
	rootCmd.AddCommand(assignCmd)
}

func runAssign(cmd *cobra.Command, args []string) error {
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
			logger.New("assign-command").Errorf("service close: %v", err)
		}
	}()

	rep := svc.Manager.Handle(cmd.Context(), strings.Join(args, " "))
	fmt.Fprintln(cmd.OutOrStdout(), rep.Text)
	if rep.Confirm != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTo confirm: %s\n", rep.Confirm)
	}
	return nil
}
