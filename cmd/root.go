package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logFile    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "memex",
	Short: "memex – a personal plain-text message log",
	Long: `memex keeps short timestamped messages, one per line, in a plain-text file
(~/.memex/memex.txt by default). Text after the last '#' is stored as a comment:

  memex add drank water # second glass`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.memex/config.json)")
	rootCmd.PersistentFlags().StringVarP(&logFile, "file", "f", "", "Log file, overrides the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(overCmd)
	rootCmd.AddCommand(backCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(lastCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(verbCmd)
	rootCmd.AddCommand(remindCmd)
}
