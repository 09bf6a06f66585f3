package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/cantera/pkg/subscription"
)

type planEntry struct {
	ID     subscription.PlanID     `json:"id" yaml:"id"`
	Name   string                  `json:"name" yaml:"name"`
	Limits subscription.PlanLimits `json:"limits" yaml:"limits"`
}

func catalog() []planEntry {
	plans := subscription.Plans()
	out := make([]planEntry, 0, len(plans))
	for _, p := range plans {
		out = append(out, planEntry{ID: p, Name: p.DisplayName(), Limits: subscription.GetPlanLimits(p)})
	}
	return out
}

func newPlansCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Print the plan catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printPlans(cmd.OutOrStdout(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func printPlans(w io.Writer, format string) error {
	entries := catalog()
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		return printPlanTable(w, entries)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func printPlanTable(w io.Writer, entries []planEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAN\tCANTERAS\tCLIENTES\tPRODUCCION/MES\tVENTAS/MES\tUSUARIOS\tPDF\tEXCEL\tREPORTES")
	for _, e := range entries {
		l := e.Limits
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			capString(l.MaxCanteras),
			capString(l.MaxClientes),
			capString(l.MaxProduccionMensual),
			capString(l.MaxVentasMensual),
			capString(l.MaxUsuarios),
			yesNo(l.ExportacionPDF),
			yesNo(l.ExportacionExcel),
			yesNo(l.ReportesAvanzados),
		)
	}
	return tw.Flush()
}

func capString(v int64) string {
	if v == subscription.Unlimited {
		return "ilimitado"
	}
	return strconv.FormatInt(v, 10)
}

func yesNo(b bool) string {
	if b {
		return "si"
	}
	return "no"
}
