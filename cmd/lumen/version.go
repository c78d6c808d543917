package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lumen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("lumen version 1.0.0")
	},
}
