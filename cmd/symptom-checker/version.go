package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/symptom-checker-server/internal/domain"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of symptom-checker",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "symptom-checker %s\n", domain.Version)
		},
	}
}
