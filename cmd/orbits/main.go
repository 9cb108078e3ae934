package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbits/internal/config"
	"github.com/san-kum/orbits/internal/export"
	"github.com/san-kum/orbits/internal/gui"
	"github.com/san-kum/orbits/internal/integrators"
	"github.com/san-kum/orbits/internal/logging"
	"github.com/san-kum/orbits/internal/physics"
	"github.com/san-kum/orbits/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	settingsFile   string
	bodiesFile     string
	presetName     string
	integratorName string
	logLevel       string
	logFormat      string
	saveDir        string
	metricsAddr    string

	// window
	fullscreen bool
	loadFrom   string

	// terminal
	fps    int
	extent float64

	// headless
	ticks    int
	saveTo   string
	height   int
	writeOut string

	// export
	exportTicks int
	sampleEvery int
	svgWidth    int
	svgHeight   int
)

// main registers the commands and flags, opens the window when no
// subcommand is given, and exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "orbits",
		Short:        "interactive 2d gravity simulation",
		SilenceUsage: true,
		RunE:         runWindow,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&settingsFile, "settings", "", "settings file (yaml)")
	pf.StringVar(&bodiesFile, "bodies", "", "startup body document (default: config.json beside the executable)")
	pf.StringVar(&presetName, "preset", "", "start from a built-in preset instead of the body document")
	pf.StringVar(&integratorName, "integrator", "symplectic", "integrator (symplectic, euler)")
	pf.StringVar(&logLevel, "log-level", "info", "log level")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	pf.StringVar(&saveDir, "save-dir", config.DefaultSaveDir, "directory for saved body documents")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	rootCmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "start fullscreen")
	rootCmd.Flags().StringVar(&loadFrom, "load-from", "", "document loaded by the l key (default: newest save)")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		RunE:  runWindow,
	}
	guiCmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "start fullscreen")
	guiCmd.Flags().StringVar(&loadFrom, "load-from", "", "document loaded by the l key (default: newest save)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the simulation in the terminal",
		RunE:  runTerminal,
	}
	tuiCmd.Flags().IntVar(&fps, "fps", 30, "frame rate")
	tuiCmd.Flags().Float64Var(&extent, "extent", 0, "world distance from centre to screen edge (default: 2x display scale)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "advance the simulation without a renderer",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 10000, "number of ticks")
	runCmd.Flags().StringVar(&saveTo, "save", "", "write the final bodies to this document")

	energyCmd := &cobra.Command{
		Use:   "energy",
		Short: "plot relative energy drift over a headless run",
		RunE:  plotEnergy,
	}
	energyCmd.Flags().IntVar(&ticks, "ticks", 10000, "number of ticks")
	energyCmd.Flags().IntVar(&height, "height", 12, "plot height")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare energy drift across integrators",
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().IntVar(&ticks, "ticks", 10000, "number of ticks")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or write one as a body document",
		Args:  cobra.MaximumNArgs(1),
		RunE:  presets,
	}
	presetsCmd.Flags().StringVar(&writeOut, "write", "", "write the named preset to this path")

	savesCmd := &cobra.Command{
		Use:   "saves",
		Short: "list saved body documents",
		RunE:  listSaves,
	}

	validateCmd := &cobra.Command{
		Use:   "validate [document]",
		Short: "check a body document",
		Args:  cobra.ExactArgs(1),
		RunE:  validateDocument,
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "print the effective settings",
		RunE:  printSettings,
	}
	settingsCmd.Flags().StringVar(&writeOut, "write", "", "write the effective settings to this path")

	exportCmd := &cobra.Command{
		Use:   "export <file.svg>",
		Short: "render trajectories of a headless run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportCmd.Flags().IntVar(&exportTicks, "ticks", 2000, "number of ticks")
	exportCmd.Flags().IntVar(&sampleEvery, "every", 5, "record a trail point every n ticks")
	exportCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	rootCmd.AddCommand(guiCmd, tuiCmd, runCmd, energyCmd, compareCmd, exportCmd, presetsCmd, savesCmd, validateCmd, settingsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runWindow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	s, err := a.build()
	if err != nil {
		return err
	}

	w := a.settings.Window
	return gui.Run(s, gui.Options{
		Title:      "orbits",
		Width:      w.Width,
		Height:     w.Height,
		TPS:        w.FPS,
		Fullscreen: fullscreen || w.Fullscreen,
		SavePath:   a.store.NextPath,
		LoadPath: func() string {
			if loadFrom != "" {
				return loadFrom
			}
			path, err := a.store.Latest()
			if err != nil {
				a.log.Error("list saves failed", "dir", a.store.Dir(), "err", err)
			}
			return path
		},
	}, a.log)
}

func runTerminal(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	// the terminal is the screen; only log when asked to
	if !cmd.Flags().Changed("log-level") {
		a.log = logging.Discard()
	}
	s, err := a.build()
	if err != nil {
		return err
	}

	e := float32(extent)
	if e <= 0 {
		e = 2 * a.settings.DisplayScale
	}
	return viz.Run(s, e, fps)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	s, err := a.build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	before := s.State().Bodies()
	drift, err := headless(ctx, s, ticks, false)
	if err != nil {
		return err
	}
	after := s.State().Bodies()

	px0, py0 := physics.Momentum(before)
	px1, py1 := physics.Momentum(after)
	com := physics.CenterOfMass(after)

	fmt.Printf("steps: %d\n", s.State().Steps())
	fmt.Printf("integrator: %s\n", s.Integrator().Name())
	fmt.Printf("energy: %.6g -> %.6g\n", drift.Initial(), drift.Current())
	fmt.Printf("max energy drift: %.6f%%\n", drift.Value()*100)
	fmt.Printf("momentum: (%.6g, %.6g) -> (%.6g, %.6g)\n", px0, py0, px1, py1)
	fmt.Printf("center of mass: (%.3f, %.3f)\n", com.X(), com.Y())

	if saveTo != "" {
		if err := a.codec.Save(saveTo, after); err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", saveTo)
	}
	return nil
}

func plotEnergy(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	s, err := a.build()
	if err != nil {
		return err
	}

	drift, err := headless(cmd.Context(), s, ticks, true)
	if err != nil {
		return err
	}

	data := downsample(drift.History(), 100)
	for i := range data {
		data[i] *= 100
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("relative energy drift %% (%s, %d ticks)", s.Integrator().Name(), ticks)),
	)
	fmt.Println(graph)
	fmt.Printf("\nmax drift: %.6f%%\n", drift.Value()*100)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	bodies, err := a.startBodies()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tTICKS\tMAX DRIFT\tFINAL ENERGY")
	for _, name := range integrators.Names() {
		s, err := a.newSimulator(bodies, name)
		if err != nil {
			return err
		}
		drift, err := headless(cmd.Context(), s, ticks, false)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%.6f%%\t%.6g\n", name, ticks, drift.Value()*100, drift.Current())
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	s, err := a.build()
	if err != nil {
		return err
	}

	trails := export.NewTrails(s.State().Bodies(), uint64(sampleEvery))
	s.AddObserver(trails)
	if err := s.Run(cmd.Context(), exportTicks); err != nil {
		return err
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteSVG(f, s.Frame(), trails, svgWidth, svgHeight); err != nil {
		return err
	}
	fmt.Printf("wrote %d ticks to %s\n", exportTicks, args[0])
	return f.Close()
}

func presets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("presets:")
		for _, name := range config.ListPresets() {
			fmt.Printf("  %s (%d bodies)\n", name, len(config.Presets[name]))
		}
		return nil
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	bodies, err := config.GetPreset(args[0], a.settings.DisplayScale)
	if err != nil {
		return err
	}
	if writeOut == "" {
		return a.codec.Encode(os.Stdout, bodies)
	}
	if err := a.codec.Save(writeOut, bodies); err != nil {
		return err
	}
	fmt.Printf("wrote %s to %s\n", args[0], writeOut)
	return nil
}

func listSaves(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	saves, err := a.store.List()
	if err != nil {
		return err
	}
	if len(saves) == 0 {
		fmt.Println("no saves found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tMODIFIED")
	for _, e := range saves {
		fmt.Fprintf(w, "%s\t%d\t%s\n", e.Name, e.Bodies, e.Modified.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func validateDocument(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	bodies, err := a.codec.Load(args[0])
	if err != nil {
		return err
	}

	field := a.settings.ForceField()
	px, py := physics.Momentum(bodies)
	fmt.Printf("bodies: %d\n", len(bodies))
	fmt.Printf("energy: %.6g\n", field.Energy(bodies))
	fmt.Printf("momentum: (%.6g, %.6g)\n", px, py)
	return nil
}

func printSettings(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if writeOut != "" {
		if err := config.Save(writeOut, a.settings); err != nil {
			return err
		}
		fmt.Printf("wrote settings to %s\n", writeOut)
		return nil
	}
	out, err := yaml.Marshal(a.settings)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

// downsample keeps at most n evenly spaced points of data.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n {
		return append([]float64(nil), data...)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = data[i*(len(data)-1)/(n-1)]
	}
	return out
}
