package cmd

import (
	"fmt"

	"github.com/evcs-platform/evcs-smoke/internal/probe"
	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"
)

var probesCmd = &cobra.Command{
	Use:   "probes",
	Short: "list the available API checks",

	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.AppendHeader(table.Row{"#", "Name", "Method", "Endpoint", "Description"})
		for i, p := range probe.All() {
			t.AppendRow(table.Row{i + 1, p.Name, "GET", p.Endpoint, p.Title})
		}
		t.SetStyle(table.StyleLight)
		fmt.Println(t.Render())
	},
}

func init() {
	rootCmd.AddCommand(probesCmd)
}
