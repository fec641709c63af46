// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// listCmd prints every command of every registered plugin.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered plugin commands",
	Long: `List every command of every registered plugin, in plugin
registration order, then command declaration order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}

		listings := rt.ListCommands()
		if len(listings) == 0 {
			fmt.Println(SubtitleStyle.Render("No plugins registered."))
			fmt.Println(SubtitleStyle.Render("Add one with --plugin-dir or configure search_paths."))
			return nil
		}

		fmt.Println(TitleStyle.Render("Registered commands:"))
		fmt.Println()

		lastNamespace := ""
		for _, l := range listings {
			if l.Plugin != lastNamespace {
				fmt.Println(CmdStyle.Render(l.Plugin))
				lastNamespace = l.Plugin
			}
			fmt.Fprintf(os.Stdout, "  %-24s %s\n", l.Command, SubtitleStyle.Render(l.Description))
		}

		return nil
	},
}
