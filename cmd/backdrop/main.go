package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/backdrop/internal/automation"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/export"
	"github.com/san-kum/backdrop/internal/gui"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/observability"
	"github.com/san-kum/backdrop/internal/render/raster"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/sim"
	"github.com/san-kum/backdrop/internal/viz"
	"github.com/san-kum/backdrop/internal/window"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	frameRate  int
	width      int
	height     int
	agents     int
	hud        bool
	logLevel   string
	logFormat  string
	logFile    string

	// headless runs
	frames     int
	clickEvery int
	dpr        float64
	outPath    string
	gifPath    string
	gifScale   float64
	gifEvery   int
	runs       int
	workers    int
	scriptPath string

	// sweeps
	param      string
	paramMin   float64
	paramMax   float64
	steps      int
	metricName string
	grid       []string

	// terminal
	theme string
	scale float64

	// run inspection
	column  string
	svgPath string

	cfg *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "backdrop",
		Short: "interactive procedural background",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = resolveConfig(cmd)
			if err != nil {
				return err
			}
			initLogger(cmd, cfg.Logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync()
		},
		RunE: runWindow,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", "~/.backdrop/runs", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	pf.IntVar(&width, "width", config.DefaultWidth, "surface width")
	pf.IntVar(&height, "height", config.DefaultHeight, "surface height")
	pf.IntVar(&agents, "agents", 0, "number of point agents")
	pf.BoolVar(&hud, "hud", false, "show frame statistics")
	pf.StringVar(&logLevel, "log-level", "info", "log level")
	pf.StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	pf.StringVar(&logFile, "log-file", "", "also write JSON logs to this file")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run in a desktop window (default)",
		RunE:  runWindow,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run in a raylib window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.Run(newController(), cfg.Window)
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.Run(newController(), scale, theme)
		},
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "aurora", "theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	tuiCmd.Flags().Float64Var(&scale, "scale", viz.DefaultScale, "surface units per braille dot")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render frames headless to PNG or GIF",
		RunE:  renderFrames,
	}
	addPlayFlags(renderCmd)
	renderCmd.Flags().Float64Var(&dpr, "dpr", 1, "device pixel ratio")
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "backdrop.png", "PNG of the last frame")
	renderCmd.Flags().StringVar(&gifPath, "gif", "", "also record an animated GIF")
	renderCmd.Flags().Float64Var(&gifScale, "gif-scale", 0.5, "GIF scale factor")
	renderCmd.Flags().IntVar(&gifEvery, "gif-every", 2, "capture every nth frame")

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "render the last frame as SVG",
		RunE:  renderSVG,
	}
	addPlayFlags(svgCmd)
	svgCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "run a scripted session and store its frame series",
		RunE:  recordRun,
	}
	addPlayFlags(recordCmd)
	recordCmd.Flags().IntVar(&runs, "runs", 1, "number of seeds to run in parallel")
	recordCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs limit (0 = no limit)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "plot only this column")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "write the column as an SVG chart")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and series to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a run series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "kinetic_energy", "series to analyze")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure headless frame rate across agent counts",
		RunE:  benchFrames,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 600, "frames per measurement")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one scene parameter and compare metrics",
		RunE:  sweepParam,
	}
	addPlayFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&param, "param", "pointer.strength", "parameter ("+strings.Join(automation.ParamNames(), ", ")+")")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&steps, "steps", 5, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search scene parameters for the lowest metric",
		RunE:  tuneParams,
	}
	addPlayFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&metricName, "metric", "energy_peak", "metric to minimise")
	tuneCmd.Flags().StringSliceVar(&grid, "grid", []string{"repulsion.strength=0.25,0.5,1", "agents.friction=0.9,0.94,0.97"}, "name=v1,v2,... per parameter")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "print the resolved config, or save it to path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				path, err := homedir.Expand(args[0])
				if err != nil {
					return err
				}
				if err := config.Save(path, cfg); err != nil {
					return err
				}
				fmt.Printf("saved %s\n", path)
				return nil
			}
			return yaml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}

	rootCmd.AddCommand(windowCmd, guiCmd, tuiCmd, renderCmd, svgCmd, recordCmd, listCmd, plotCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, analyzeCmd, benchCmd, sweepCmd, tuneCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frames, "frames", 600, "frames to simulate")
	cmd.Flags().IntVar(&clickEvery, "click-every", 180, "scripted click interval in frames (0 = none)")
	cmd.Flags().StringVar(&scriptPath, "script", "", "scenario file (yaml) with scripted input")
}

// loadScript returns the scripted input for a headless run and the number of
// frames to play. A scenario's frame count yields to an explicit --frames.
func loadScript(cmd *cobra.Command, surface scene.Surface) (sim.Script, int, error) {
	if scriptPath == "" {
		return sim.OrbitScript(surface, frames, clickEvery), frames, nil
	}
	path, err := homedir.Expand(scriptPath)
	if err != nil {
		return nil, 0, err
	}
	sc, err := automation.LoadScenario(path)
	if err != nil {
		return nil, 0, err
	}
	n := sc.Frames
	if cmd.Flags().Changed("frames") {
		n = frames
	}
	script, err := sc.Script(surface)
	return script, n, err
}

// resolveConfig starts from the preset or config file and applies only the
// flags that were set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.DefaultConfig()
	if preset != "" {
		c = config.GetPreset(preset)
		if c == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return nil, err
		}
		c, err = config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		c.Seed = seed
	}
	if flags.Changed("fps") {
		c.Window.FPS = frameRate
	}
	if flags.Changed("width") {
		c.Window.Width = width
	}
	if flags.Changed("height") {
		c.Window.Height = height
	}
	if flags.Changed("agents") {
		c.Scene.Agents.Count = agents
	}
	if flags.Changed("hud") {
		c.Window.HUD = hud
	}
	if flags.Changed("log-level") {
		c.Logger.Level = logLevel
	}
	if flags.Changed("log-format") {
		c.Logger.Format = logFormat
	}
	if flags.Changed("log-file") {
		c.Logger.File = logFile
	}

	expanded, err := homedir.Expand(dataDir)
	if err != nil {
		return nil, err
	}
	dataDir = expanded

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// initLogger keeps the terminal surface clean: the tui only logs to a file.
func initLogger(cmd *cobra.Command, lc config.LoggerConfig) {
	if cmd.Name() == "tui" {
		observability.Initialize(lc, zapcore.AddSync(io.Discard))
		return
	}
	observability.InitializeLogger(lc)
}

func newController(opts ...sim.Option) *sim.Controller {
	opts = append([]sim.Option{sim.WithFrameRate(cfg.Window.FPS)}, opts...)
	for _, m := range metrics.Defaults() {
		opts = append(opts, sim.WithMetric(m))
	}
	return sim.NewController(scene.New(cfg.Scene, cfg.Seed), observability.GetLogger(), opts...)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runWindow(cmd *cobra.Command, args []string) error {
	return window.Run(newController(), cfg.Window)
}

// mountHeadless mounts ctrl on the configured surface at the given DPR.
func mountHeadless(ctrl *sim.Controller, ratio float64) (scene.Surface, error) {
	surface := cfg.Surface()
	surface.DPR = ratio
	if !ctrl.Mount(surface) {
		return surface, fmt.Errorf("cannot mount on %vx%v surface", surface.Width, surface.Height)
	}
	return surface, nil
}

func renderFrames(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	ctrl := newController()
	defer ctrl.Unmount()
	surface, err := mountHeadless(ctrl, dpr)
	if err != nil {
		return err
	}

	canvas := raster.New()
	var rec *raster.GIFRecorder
	if gifPath != "" {
		rec = raster.NewGIFRecorder(gifScale, cfg.Window.FPS/max(gifEvery, 1))
	}

	script, n, err := loadScript(cmd, surface)
	if err != nil {
		return err
	}
	res, err := ctrl.Play(ctx, n, script, canvas, func(frame int) error {
		if rec != nil && frame%max(gifEvery, 1) == 0 {
			rec.Add(canvas.Image())
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := writeFile(outPath, canvas.WritePNG); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	if rec != nil {
		if err := writeFile(gifPath, rec.Encode); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d frames)\n", gifPath, rec.Len())
	}
	printResult(res)
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	ctrl := newController()
	defer ctrl.Unmount()
	surface, err := mountHeadless(ctrl, 1)
	if err != nil {
		return err
	}

	script, n, err := loadScript(cmd, surface)
	if err != nil {
		return err
	}
	if _, err := ctrl.Play(ctx, max(n-1, 0), script, nil, nil); err != nil {
		return err
	}
	doc := export.NewSVG()
	ctrl.Frame(doc)

	if outPath == "" {
		_, err := doc.WriteTo(os.Stdout)
		return err
	}
	if err := writeFile(outPath, func(w io.Writer) error {
		_, err := doc.WriteTo(w)
		return err
	}); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printResult(res *sim.Result) {
	logger := observability.GetLogger()
	logger.Info("run finished",
		zap.Int("frames", res.Frames),
		zap.Duration("elapsed", res.Elapsed),
		zap.Float64("fps", res.FPS()),
		zap.Int("reseeds", res.Reseeds))
	fmt.Printf("frames: %d\n", res.Frames)
	fmt.Printf("elapsed: %v (%.0f fps)\n", res.Elapsed, res.FPS())
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(res.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, res.Metrics[name])
	}
}
