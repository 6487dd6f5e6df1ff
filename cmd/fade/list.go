package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"image-fade/internal/core"
	"image-fade/internal/termui"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available transitions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			termui.Title(out, "Transitions")
			for _, name := range core.Names() {
				fmt.Fprintln(out, "  "+name)
			}
		},
	}
}
