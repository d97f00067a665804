package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/symptom-checker-server/internal/setup"
)

func newSetupCmd(a *app) *cobra.Command {
	var configPath string

	resolvePath := func() (string, error) {
		if configPath != "" {
			return configPath, nil
		}
		return setup.DefaultConfigPath()
	}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the lite MCP server with a desktop MCP client",
	}
	cmd.PersistentFlags().StringVar(&configPath, "client-config", "", "client configuration file (default: the desktop client's standard location)")

	var binary string
	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Add or update the symptom-checker entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath()
			if err != nil {
				return err
			}
			if err := a.cfg.EnsureDataDir(); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			entry, err := setup.Register(path, setup.Options{
				BinaryPath:  binary,
				DataDir:     a.cfg.DataDir,
				CatalogFile: a.cfg.CatalogFile,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s) in %s\nRestart the client to pick up the change.\n",
				setup.ServerName, entry.Command, path)
			return nil
		},
	}
	installCmd.Flags().StringVar(&binary, "binary", "", "path to "+setup.BinaryName+" (default: search PATH)")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the server is registered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath()
			if err != nil {
				return err
			}
			status, err := setup.Check(path, a.cfg.DataDir)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the symptom-checker entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath()
			if err != nil {
				return err
			}
			removed, err := setup.Unregister(path)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "Not registered; nothing to do.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", setup.ServerName, path)
			return nil
		},
	}

	cmd.AddCommand(installCmd, statusCmd, removeCmd)
	return cmd
}
