package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cnkfz/lumen/internal/classfile"
	"github.com/cnkfz/lumen/internal/natives"
	"github.com/cnkfz/lumen/internal/observ"
	"github.com/cnkfz/lumen/internal/trace"
	"github.com/cnkfz/lumen/internal/ui"
	"github.com/cnkfz/lumen/internal/vm"

	tea "github.com/charmbracelet/bubbletea"
)

var runCmd = &cobra.Command{
	Use:   "run <classpath-dir> <class> <method> <descriptor> [args...]",
	Short: "Load a classpath and invoke a class method",
	Long: `Loads classes as reference JSON documents from a classpath directory,
constructs a VM, and invokes className.methodName(descriptor) with the
given arguments, printing the marshalled result.`,
	Args: cobra.MinimumNArgs(4),
	RunE: runExecution,
}

func init() {
	runCmd.Flags().Int("heap-cells", 0, "heap cell count (0 uses lumen.toml or the default)")
	runCmd.Flags().Bool("record-natives", false, "append native-call records to lumen-natives.mp")
	runCmd.Flags().Bool("dump", false, "dump the heap after the call returns")
	runCmd.Flags().Bool("timings", false, "print a phase-by-phase timing report to stderr")
}

func runExecution(cmd *cobra.Command, args []string) error {
	classpath, className, methodName, descriptorStr := args[0], args[1], args[2], args[3]
	callArgs := args[4:]

	descriptor, err := classfile.ParseDescriptor(descriptorStr)
	if err != nil {
		return fmt.Errorf("descriptor %q: %w", descriptorStr, err)
	}

	cfg, err := loadConfigForRun(cmd)
	if err != nil {
		return err
	}

	heapCells, _ := cmd.Flags().GetInt("heap-cells")
	if heapCells == 0 {
		heapCells = cfg.HeapCells()
	}

	tracer, closeTracer, err := buildTracer(cmd)
	if err != nil {
		return err
	}
	defer closeTracer()

	opts := vm.Options{
		Loader:   classfile.DirLoader{Dir: classpath},
		Parser:   classfile.JSONParser{},
		Natives:  natives.Default(),
		Tracer:   tracer,
		HeapSize: heapCells,
	}

	recordNatives, _ := cmd.Flags().GetBool("record-natives")
	if recordNatives {
		f, err := os.Create("lumen-natives.mp")
		if err != nil {
			return err
		}
		defer f.Close()
		opts.NativeLog = f
	}

	m := vm.New(opts)
	timer := observ.NewTimer()

	showUI, _ := cmd.Flags().GetBool("ui")
	if showUI {
		p := timer.Begin("prefetch")
		err := prefetchWithUI(cmd.Context(), m, []string{className})
		timer.End(p, className)
		if err != nil {
			return err
		}
	}

	argValues, err := parseArgs(callArgs, descriptor.Params)
	if err != nil {
		return err
	}

	invokePhase := timer.Begin("invoke")
	result, err := m.Invoke(cmd.Context(), className, methodName, descriptor, argValues)
	timer.End(invokePhase, className+"."+methodName)

	showTimings, _ := cmd.Flags().GetBool("timings")
	if showTimings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if err != nil {
		printFailure(cmd, err)
		os.Exit(1)
	}

	printResult(cmd, m, descriptor, result)

	dumpFlag, _ := cmd.Flags().GetBool("dump")
	if dumpFlag {
		return m.Heap.Dump(cmd.OutOrStdout(), 0)
	}
	return nil
}

func loadConfigForRun(cmd *cobra.Command) (vm.Config, error) {
	path, ok, err := vm.FindManifest(".")
	if err != nil {
		return vm.Config{}, err
	}
	if !ok {
		return vm.Config{}, nil
	}
	return vm.LoadConfig(path)
}

func buildTracer(cmd *cobra.Command) (trace.Tracer, func(), error) {
	dest, _ := cmd.Flags().GetString("trace")
	if dest == "" {
		return trace.Nop, func() {}, nil
	}
	t, err := trace.New(trace.Config{
		Level:      trace.LevelDetail,
		Mode:       trace.ModeStream,
		OutputPath: dest,
	})
	if err != nil {
		return nil, nil, err
	}
	return t, func() { t.Close() }, nil
}

func prefetchWithUI(ctx context.Context, m *vm.Machine, classes []string) error {
	events := make(chan ui.Event)
	model := ui.NewProgressModel("resolving classes", classes, events)
	program := tea.NewProgram(model)

	done := make(chan error, 1)
	go func() {
		done <- m.Prefetch(ctx, classes, events)
		close(events)
	}()

	if _, err := program.Run(); err != nil {
		return err
	}
	return <-done
}

// parseArgs marshals command-line strings into vm.Values per params.
// An arg is parsed as the numeric form a primitive params[i] expects;
// "null" always yields a null reference, and any other arg for a
// reference-typed parameter is rejected.
func parseArgs(args []string, params []classfile.Type) ([]vm.Value, error) {
	if len(args) != len(params) {
		return nil, fmt.Errorf("expected %d argument(s), got %d", len(params), len(args))
	}
	out := make([]vm.Value, len(args))
	for i, a := range args {
		if a == "null" {
			out[i] = vm.MakeRef(vm.NullRef)
			continue
		}
		switch {
		case params[i].IsPrimitive():
			v, err := parsePrimitiveArg(params[i].Primitive(), a)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			out[i] = v
		default:
			return nil, fmt.Errorf("argument %d: reference-typed arguments require a running VM to allocate; use \"null\"", i)
		}
	}
	return out, nil
}

func parsePrimitiveArg(p classfile.Primitive, s string) (vm.Value, error) {
	switch p {
	case classfile.Int, classfile.Short, classfile.Byte, classfile.Char, classfile.Boolean:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return vm.Value{}, err
		}
		return vm.MakeInt(int32(n)), nil
	case classfile.Long:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return vm.Value{}, err
		}
		return vm.MakeLong(n), nil
	case classfile.Float:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return vm.Value{}, err
		}
		return vm.MakeFloat(float32(f)), nil
	case classfile.Double:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return vm.Value{}, err
		}
		return vm.MakeDouble(f), nil
	default:
		return vm.Value{}, fmt.Errorf("unsupported primitive argument kind %s", p)
	}
}

func printResult(cmd *cobra.Command, m *vm.Machine, descriptor classfile.Descriptor, result vm.Value) {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return
	}
	if descriptor.Return.IsPrimitive() && descriptor.Return.Primitive() == classfile.Void {
		return
	}
	if result.IsReference() {
		fmt.Fprintf(cmd.OutOrStdout(), "ref#%d\n", result.Ref())
		return
	}
	out := cmd.OutOrStdout()
	switch descriptor.Return.Primitive() {
	case classfile.Long:
		fmt.Fprintln(out, result.Long())
	case classfile.Float:
		fmt.Fprintln(out, result.Float())
	case classfile.Double:
		fmt.Fprintln(out, result.Double())
	default:
		fmt.Fprintln(out, result.Int())
	}
}

func printFailure(cmd *cobra.Command, err error) {
	mode, _ := cmd.Flags().GetString("color")
	c := errorColor(mode)
	switch e := err.(type) {
	case *vm.UncaughtException:
		c.Fprintf(cmd.ErrOrStderr(), "uncaught exception: %s\n", e.ClassName)
	case *vm.InternalException:
		c.Fprintf(cmd.ErrOrStderr(), "internal error: %s\n", e.Err.Error())
	default:
		c.Fprintf(cmd.ErrOrStderr(), "error: %s\n", err.Error())
	}
}
