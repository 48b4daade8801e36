package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the conveyor-mcp version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("conveyor-mcp version %s\n", rootCmd.Version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
