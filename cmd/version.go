package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rolldev-mcp",
		Long:  `All software has versions. This is rolldev-mcp's.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rolldev-mcp version %s\n", rootCmd.Version)
		},
	}
}
