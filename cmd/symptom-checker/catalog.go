package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/symptom-checker-server/internal/knowledge"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Export or check condition catalogs",
	}

	var output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active catalog as YAML",
		Long: `Export writes the active catalog (built-in, or the one named by --catalog) in
the YAML format accepted by --catalog and SYMPTOM_CATALOG_FILE. Use it as a
starting point for a custom catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := a.knowledge()
			if err != nil {
				return err
			}
			if output == "" {
				return kb.WriteYAML(cmd.OutOrStdout())
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := kb.WriteYAML(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d conditions to %s\n", len(kb.Conditions()), output)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")

	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a YAML catalog loads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := knowledge.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d conditions, %d categories, fingerprint %s\n",
				args[0], len(kb.Conditions()), len(kb.Categories()), kb.Fingerprint())
			return nil
		},
	}

	cmd.AddCommand(exportCmd, validateCmd)
	return cmd
}
