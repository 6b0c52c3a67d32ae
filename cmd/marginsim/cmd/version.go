package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("marginsim version %s\n", version)
		fmt.Println("A leveraged dividend-portfolio backtest and margin simulator")
		fmt.Println("https://github.com/rustyeddy/marginsim")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
