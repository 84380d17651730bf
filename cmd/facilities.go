package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	infrastore "github.com/kilianp07/impianti/infra/store"
)

var facilitiesCmd = &cobra.Command{
	Use:   "facilities",
	Short: "Facility related commands",
}

var facilitiesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List loaded facilities",
	RunE:  runFacilitiesLs,
}

var facilitiesImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a facility dataset into the configured store",
	Args:  cobra.ExactArgs(1),
	RunE:  runFacilitiesImport,
}

func init() {
	facilitiesCmd.AddCommand(facilitiesLsCmd, facilitiesImportCmd)
	rootCmd.AddCommand(facilitiesCmd)
}

func runFacilitiesLs(cmd *cobra.Command, _ []string) error {
	svc, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeService(cmd, svc)
	fs, err := svc.Facilities(cmd.Context())
	if err != nil {
		return err
	}
	for _, f := range fs {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d records\n", f.ID, f.DisplayName(), len(f.Consumptions)); err != nil {
			return err
		}
	}
	return nil
}

func runFacilitiesImport(cmd *cobra.Command, args []string) error {
	facilities, err := infrastore.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	svc, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeService(cmd, svc)
	if err := svc.Import(cmd.Context(), facilities); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d facilities into the %s store\n", len(facilities), cfg.Store.Backend)
	return err
}
