package main

import "github.com/spf13/cobra"

// dumpCmd is a thin convenience wrapper around `run --dump`: invoke a
// method and render the resulting heap instead of the return value
// alone, per §6's Heap.Dump observability contract.
var dumpCmd = &cobra.Command{
	Use:   "dump <classpath-dir> <class> <method> <descriptor> [args...]",
	Short: "Invoke a method and dump the resulting heap",
	Args:  cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cmd.Flags().Set("dump", "true"); err != nil {
			return err
		}
		return runExecution(cmd, args)
	},
}

func init() {
	dumpCmd.Flags().Int("heap-cells", 0, "heap cell count (0 uses lumen.toml or the default)")
	dumpCmd.Flags().Bool("record-natives", false, "append native-call records to lumen-natives.mp")
	dumpCmd.Flags().Bool("dump", false, "dump the heap after the call returns")
	dumpCmd.Flags().Bool("timings", false, "print a phase-by-phase timing report to stderr")
}
