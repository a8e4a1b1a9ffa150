package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "procurement",
	Short: "Procurement workflow service",
	Long:  `Backend service for the purchase request, purchase order, goods receipt and inventory workflow`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "path to the directory containing config.yaml")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
