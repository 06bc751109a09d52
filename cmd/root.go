package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"optibatch/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "optibatch",
	Short: "optibatch - batch image optimization via an external optimizer",
	Long:  "optibatch walks a source tree of images, runs an optipng-compatible optimizer on each eligible file, and copies the rest into the destination tree.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	config.SetDefaults()
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
