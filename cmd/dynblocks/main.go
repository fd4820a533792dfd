package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/dynblocks/internal/config"
	"github.com/san-kum/dynblocks/internal/control"
	"github.com/san-kum/dynblocks/internal/experiment"
	"github.com/san-kum/dynblocks/internal/function"
	"github.com/san-kum/dynblocks/internal/relation"
	"github.com/san-kum/dynblocks/internal/report"
	"github.com/san-kum/dynblocks/internal/storage"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	state      []float64
	inputs     map[string]string
	sweepIn    int
	sweepOut   int
	sweepPort  int
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	saveRun    bool
	workers    int
	openLoop   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "dynblocks",
		Short:        "block output ports and function relation tags",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dynblocks", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	latticeCmd := &cobra.Command{
		Use:   "lattice",
		Short: "show the relation lattice",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), report.RenderLattice())
		},
	}

	relationCmd := &cobra.Command{
		Use:   "relation",
		Short: "query the relation lattice",
	}
	relationCmd.AddCommand(
		&cobra.Command{
			Use:   "isa TAG BASE",
			Short: "report whether TAG is a BASE",
			Args:  cobra.ExactArgs(2),
			RunE:  relationIsA,
		},
		&cobra.Command{
			Use:   "lca TAG...",
			Short: "least common ancestor of the tags",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return reduceTags(cmd, args, relation.Reduce)
			},
		},
		&cobra.Command{
			Use:   "compose G F",
			Short: "tag of g∘f",
			Args:  cobra.ExactArgs(2),
			RunE:  relationCompose,
		},
		&cobra.Command{
			Use:   "combine TAG...",
			Short: "tag of the stacked functions",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return reduceTags(cmd, args, relation.CombineAll)
			},
		},
	)

	evalCmd := &cobra.Command{
		Use:   "eval [model]",
		Short: "evaluate every output port",
		Args:  cobra.ExactArgs(1),
		RunE:  evalModel,
	}
	addPointFlags(evalCmd)

	jacobianCmd := &cobra.Command{
		Use:   "jacobian [model]",
		Short: "forward-mode jacobian at the operating point",
		Args:  cobra.ExactArgs(1),
		RunE:  jacobianModel,
	}
	addPointFlags(jacobianCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep one state entry and plot a port output",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepModel,
	}
	addPointFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepIn, "input", 0, "state index to sweep")
	sweepCmd.Flags().IntVar(&sweepOut, "output", config.DefaultSweepOutput, "port entry to record")
	sweepCmd.Flags().IntVar(&sweepPort, "port", 1, "output port index")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", -1, "sweep start")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1, "sweep end")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", config.DefaultSweepSteps, "number of points")
	sweepCmd.Flags().BoolVar(&saveRun, "save", false, "save the sweep to the data directory")
	sweepCmd.Flags().IntVar(&workers, "workers", 1, "parallel workers (0 = GOMAXPROCS)")

	closedLoopCmd := &cobra.Command{
		Use:   "closedloop [model]",
		Short: "close the model's inputs with its tuned state feedback",
		Args:  cobra.ExactArgs(1),
		RunE:  closedLoop,
	}
	addPointFlags(closedLoopCmd)
	closedLoopCmd.Flags().BoolVar(&openLoop, "open", false, "use zero feedback")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved sweeps",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(latticeCmd, relationCmd, evalCmd, jacobianCmd, sweepCmd, closedLoopCmd, runsCmd, presetsCmd)
	return rootCmd
}

func addPointFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64SliceVar(&state, "state", nil, "state vector")
	cmd.Flags().StringToStringVar(&inputs, "set", nil, "input values, e.g. torque=0.5")
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseTags(args []string) ([]relation.Tag, error) {
	tags := make([]relation.Tag, len(args))
	for i, a := range args {
		t, err := relation.ParseTag(a)
		if err != nil {
			return nil, err
		}
		tags[i] = t
	}
	return tags, nil
}

func relationIsA(cmd *cobra.Command, args []string) error {
	tags, err := parseTags(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), relation.IsA(tags[0], tags[1]))
	return nil
}

func relationCompose(cmd *cobra.Command, args []string) error {
	tags, err := parseTags(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), relation.ComposeWith(tags[0], tags[1]))
	return nil
}

func reduceTags(cmd *cobra.Command, args []string, fn func(...relation.Tag) (relation.Tag, error)) error {
	tags, err := parseTags(args)
	if err != nil {
		return err
	}
	t, err := fn(tags...)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), t)
	return nil
}

// buildConfig resolves --config, then --preset, then the default, and
// applies the point flags on top.
func buildConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	case preset != "":
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for %s (have %s)",
				preset, model, strings.Join(config.ListPresets(model), ", "))
		}
		c := *p
		cfg = &c
	default:
		cfg = config.DefaultConfig()
	}
	cfg.Model = model

	if cmd.Flags().Changed("state") {
		cfg.State = state
	}
	if len(inputs) > 0 {
		merged := make(map[string]float64, len(cfg.Inputs)+len(inputs))
		for k, v := range cfg.Inputs {
			merged[k] = v
		}
		for k, s := range inputs {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("input %s: %w", k, err)
			}
			merged[k] = v
		}
		cfg.Inputs = merged
	}

	flags := cmd.Flags()
	if flags.Lookup("steps") != nil {
		if flags.Changed("input") {
			cfg.Sweep.Input = sweepIn
		}
		if flags.Changed("output") {
			cfg.Sweep.Output = sweepOut
		}
		if flags.Changed("port") {
			cfg.Sweep.Port = sweepPort
		}
		if flags.Changed("from") {
			cfg.Sweep.From = sweepFrom
		}
		if flags.Changed("to") {
			cfg.Sweep.To = sweepTo
		}
		if flags.Changed("steps") {
			cfg.Sweep.Steps = sweepSteps
		}
	}
	return cfg, nil
}

func newExperiment(cmd *cobra.Command, model string) (*experiment.Experiment, error) {
	cfg, err := buildConfig(cmd, model)
	if err != nil {
		return nil, err
	}
	return experiment.New(experiment.NewRegistry(), cfg, newLogger())
}

func evalModel(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd, args[0])
	if err != nil {
		return err
	}
	results, err := exp.EvalAll()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.RenderPorts(exp.Model(), results))
	return nil
}

func jacobianModel(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.RenderJacobian(exp.Model(), exp.Jacobian()))
	return nil
}

func sweepModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	exp, err := experiment.New(experiment.NewRegistry(), cfg, newLogger())
	if err != nil {
		return err
	}
	var samples []experiment.Sample
	if workers == 1 {
		samples, err = exp.Sweep()
	} else {
		samples, err = exp.ParallelSweep(cmd.Context(), workers)
	}
	if err != nil {
		return err
	}

	m := exp.Model()
	caption := fmt.Sprintf("%s port %d[%d] vs x%d", m.Pathname(), cfg.Sweep.Port, cfg.Sweep.Output, cfg.Sweep.Input)
	fmt.Fprintln(cmd.OutOrStdout(), report.SweepPlot(samples, caption))

	if !saveRun {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Model:     cfg.Model,
		Block:     m.Pathname(),
		Relation:  m.Function().Relation(),
		State:     exp.Context().State(),
		Inputs:    cfg.Inputs,
		Jacobian:  exp.Jacobian(),
		SweepIn:   cfg.Sweep.Input,
		SweepOut:  cfg.Sweep.Output,
		SweepPort: cfg.Sweep.Port,
	}, samples)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved: %s\n", runID)
	return nil
}

func closedLoop(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd, args[0])
	if err != nil {
		return err
	}
	m := exp.Model()

	fb := control.NewNone(len(m.InputNames()), len(m.StateNames()))
	if !openLoop {
		if fb, err = control.ForModel(m); err != nil {
			return err
		}
	}
	cl, err := control.ClosedLoop(m, fb)
	if err != nil {
		return err
	}

	jac := function.Jacobian(cl, exp.Context().State())
	poles, err := control.Poles(jac)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.RenderClosedLoop(m, fb.Function().Relation(), cl.Relation(), jac, poles))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tRELATION\tTIME\tSAMPLES\tSWEEP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\tx%d -> port %d[%d]\n",
			run.ID, run.Model, run.Relation,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Samples, run.SweepIn, run.SweepPort, run.SweepOut)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	modelNames := experiment.NewRegistry().ListModels()
	if len(args) == 1 {
		modelNames = args
	}
	for _, m := range modelNames {
		names := config.ListPresets(m)
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", m, strings.Join(names, ", "))
	}
	return nil
}
