package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConditionsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "conditions [category]",
		Short: "List the conditions in the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			category := ""
			if len(args) == 1 {
				category = args[0]
			}
			conditions := svc.Conditions(category)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(conditions)
			}
			for _, c := range conditions {
				fmt.Fprintf(out, "%-22s %-18s %-9s %s\n", c.Name, c.Category, c.Urgency, strings.Join(c.CommonSymptoms, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <label>...",
		Short: "Show the canonical key each symptom label maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			for _, label := range args {
				n := svc.Normalize(label)
				mark := ""
				if !n.Matched {
					mark = " (unrecognized)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s%s\n", n.Input, n.Canonical, mark)
			}
			return nil
		},
	}
}
