package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docwiseai/docwise/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docwise",
		Short: "Document copilot service for Microsoft Teams",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the activity endpoint and serve conversations",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetInfo())
		},
	}

	rootCmd.AddCommand(serveCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
