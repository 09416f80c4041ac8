package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cnkfz/lumen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "A metacircular bytecode-platform interpreter",
	Long:  `lumen loads a reference JSON classpath, resolves a class table, and interprets bytecode methods on a bump-allocated heap.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("trace", "", "trace destination (- for stderr, a file path, or empty to disable)")
	rootCmd.PersistentFlags().Bool("ui", false, "show a live class-resolution progress view during prefetch")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to an interactive terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
