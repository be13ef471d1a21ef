package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/san-kum/backdrop/internal/analysis"
	"github.com/san-kum/backdrop/internal/automation"
	"github.com/san-kum/backdrop/internal/export"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/observability"
	"github.com/san-kum/backdrop/internal/optim"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/sim"
	"github.com/san-kum/backdrop/internal/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func recordRun(cmd *cobra.Command, args []string) error {
	if runs > 1 {
		return recordEnsemble(cmd, args)
	}

	ctx, cancel := signalContext()
	defer cancel()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	trace := metrics.NewTrace(max(frames, 0))
	ctrl := newController(sim.WithObserver(trace))
	defer ctrl.Unmount()
	surface, err := mountHeadless(ctrl, 1)
	if err != nil {
		return err
	}

	script, n, err := loadScript(cmd, surface)
	if err != nil {
		return err
	}

	fmt.Printf("recording %d frames...\n", n)
	res, err := ctrl.Play(ctx, n, script, nil, nil)
	if err != nil {
		return err
	}

	runID, err := st.Save(storage.RunMetadata{
		Preset:    preset,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Frames:    res.Frames,
		Width:     surface.Width,
		Height:    surface.Height,
		FPS:       float64(cfg.Window.FPS),
		Params:    cfg.Scene,
		Metrics:   res.Metrics,
	}, trace.Samples)
	if err != nil {
		return err
	}

	fmt.Printf("run id: %s\n", runID)
	printResult(res)
	return nil
}

func recordEnsemble(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	surface := cfg.Surface()
	ens := sim.NewEnsemble(cfg.Scene, runs, cfg.Seed, observability.GetLogger())
	ens.SetWorkers(workers)

	script, n, err := loadScript(cmd, surface)
	if err != nil {
		return err
	}

	fmt.Printf("running %d seeds x %d frames...\n", runs, n)
	results, err := ens.Run(ctx, surface, n, script)
	if err != nil {
		return err
	}

	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "SEED\tFPS\tRESEEDS")
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.0f\t%d", r.Seed, r.FPS(), r.Reseeds)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// runIDOrLatest picks args[0] when given, otherwise the newest run.
func runIDOrLatest(st *storage.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	meta, err := st.Latest()
	if err != nil {
		return "", err
	}
	return meta.ID, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tSURFACE\tSEED\tAGENTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0fx%.0f\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Width, run.Height,
			run.Seed,
			run.Params.Agents.Count,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	if svgPath != "" && column == "" {
		return fmt.Errorf("--svg needs --column")
	}

	st := storage.New(dataDir)
	runID, err := runIDOrLatest(st, args)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	header, rows, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", len(rows))

	for col, name := range header {
		if col == 0 || (column != "" && name != column) {
			continue
		}
		data := make([]float64, len(rows))
		for i, row := range rows {
			data[i] = row[col]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()

		if svgPath != "" && name == column {
			if err := os.WriteFile(svgPath, []byte(export.SeriesToSVG(data, 800, 200, "#06b6d4")), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", svgPath)
		}
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return writeJSON(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := runIDOrLatest(st, args)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.Column(runID, column)
	if err != nil {
		return err
	}
	if len(series) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("series: %s\n\n", column)

	ps := analysis.PowerSpectrum(series, meta.FPS)
	plotData := ps.Power[:max(len(ps.Power)/4, 1)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+column+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	sum := analysis.Summarize(series)
	fmt.Printf("mean: %.6f  std: %.6f  min: %.6f  max: %.6f\n", sum.Mean, sum.Std, sum.Min, sum.Max)

	freq, _ := ps.Dominant()
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s (%.0f frames)\n", 1.0/freq, meta.FPS/freq)
	}
	return nil
}

func benchFrames(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	counts := []int{90, 180, 360, 720, 1440}
	surface := cfg.Surface()
	fps := make([]float64, 0, len(counts))

	fmt.Printf("benchmarking %d frames on %.0fx%.0f\n\n", frames, surface.Width, surface.Height)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AGENTS\tFRAMES\tTIME\tFPS\tLINKS/FRAME")

	for _, n := range counts {
		params := cfg.Scene
		params.Agents.Count = n

		links := metrics.NewLinkDensity()
		ctrl := sim.NewController(scene.New(params, cfg.Seed), nil, sim.WithMetric(links))
		ctrl.Mount(surface)
		res, err := ctrl.Play(ctx, frames, sim.OrbitScript(surface, frames, 0), nil, nil)
		ctrl.Unmount()
		if err != nil {
			return err
		}

		fps = append(fps, res.FPS())
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.1f\n", n, res.Frames, res.Elapsed, res.FPS(), links.Value())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(fps,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption("fps by agent count"),
	))
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func headlessSession(cmd *cobra.Command) (automation.Session, error) {
	surface := cfg.Surface()
	script, n, err := loadScript(cmd, surface)
	if err != nil {
		return automation.Session{}, err
	}
	return automation.Session{
		Params:  cfg.Scene,
		Seed:    cfg.Seed,
		Surface: surface,
		Frames:  n,
		Script:  script,
		Logger:  observability.GetLogger(),
	}, nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	base, err := headlessSession(cmd)
	if err != nil {
		return err
	}
	sweep := &automation.ParameterSweep{ParamName: param, ParamMin: paramMin, ParamMax: paramMax, NumSteps: steps}

	fmt.Printf("sweeping %s over [%g, %g] in %d steps\n\n", param, paramMin, paramMax, steps)
	results, err := automation.RunSweep(ctx, sweep, base)
	if err != nil {
		return err
	}

	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, strings.ToUpper(param)+"\tRESEEDS")
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%d", r.ParamValue, r.Reseeds)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// parseGrid reads name=v1,v2 entries. StringSlice splits on commas, so the
// values after the first arrive as separate items.
func parseGrid(items []string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, item := range items {
		if name, v, ok := strings.Cut(item, "="); ok {
			names = append(names, name)
			ranges = append(ranges, nil)
			item = v
		}
		if len(names) == 0 {
			return nil, nil, fmt.Errorf("grid value %q has no parameter name", item)
		}
		f, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("grid %s: %w", names[len(names)-1], err)
		}
		ranges[len(ranges)-1] = append(ranges[len(ranges)-1], f)
	}
	return names, ranges, nil
}

func tuneParams(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	base, err := headlessSession(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("searching %v for the lowest %s...\n", names, metricName)
	best, val, err := optim.NewGridSearch(names, ranges).Search(ctx, base, metricName)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no grid point produced %s", metricName)
	}

	fmt.Printf("\nbest %s: %.6f\n", metricName, val)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best[name])
	}
	return nil
}
