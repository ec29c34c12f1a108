package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/chart"
)

var chartRefresh bool

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "显示出生星盘，默认读取缓存",
	RunE: func(cmd *cobra.Command, args []string) error {
		planets, err := eng.Chart(cmd.Context(), chartRefresh)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PLANET\tSIGN\tDEGREE\tHOUSE\tR")
		for _, p := range planets {
			retro := ""
			if p.Retrograde {
				retro = "℞"
			}
			fmt.Fprintf(w, "%s %s\t%s\t%.2f°\t%s\t%s\n",
				p.Emoji, p.Name, chart.FullSignName(p.Sign), p.Position, chart.FullHouseName(p.House), retro)
		}
		return w.Flush()
	},
}

func init() {
	chartCmd.Flags().BoolVar(&chartRefresh, "refresh", false, "忽略缓存重新获取")
}
