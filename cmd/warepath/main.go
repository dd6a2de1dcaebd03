// Command warepath loads a warehouse project, precomputes paths from every
// pick aisle and prints the aisle to staging location distance table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/katalvlaran/warepath"
	"github.com/katalvlaran/warepath/config"
	"github.com/katalvlaran/warepath/engine"
	"github.com/katalvlaran/warepath/gridimage"
	"github.com/katalvlaran/warepath/pathplot"
	"github.com/katalvlaran/warepath/precompute"
	"github.com/katalvlaran/warepath/units"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "warepath: %v\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	project  string
	unit     string
	workers  int
	cellPx   int
	gridPNG  string
	heatmap  string
	heatSrc  string
	profile  string
	route    string
	progress bool
	verbose  bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("warepath", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.project, "project", "", "path to the project JSON file (required)")
	fs.StringVar(&f.unit, "unit", "", "display unit ("+units.GetValidUnitsString()+"); defaults to the project unit")
	fs.IntVar(&f.workers, "workers", 0, "precompute workers (0 = GOMAXPROCS)")
	fs.IntVar(&f.cellPx, "cell-px", 4, "pixels per grid cell in PNG output")
	fs.StringVar(&f.gridPNG, "grid-png", "", "write the cost grid to this PNG file")
	fs.StringVar(&f.heatmap, "heatmap", "", "write a distance heat map to this PNG file")
	fs.StringVar(&f.heatSrc, "heatmap-source", "", "pick aisle for -heatmap (defaults to the first)")
	fs.StringVar(&f.profile, "profile", "", "write the -route distance profile to this PNG file")
	fs.StringVar(&f.route, "route", "", "print one route as AISLE:STAGING")
	fs.BoolVar(&f.progress, "progress", false, "print precompute progress")
	fs.BoolVar(&f.verbose, "v", false, "debug logging to stderr")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.project == "" {
		return nil, errors.New("-project is required")
	}
	if f.unit != "" && !units.IsValid(f.unit) {
		return nil, fmt.Errorf("invalid -unit %q, want one of %s", f.unit, units.GetValidUnitsString())
	}
	if f.cellPx <= 0 {
		return nil, fmt.Errorf("-cell-px must be positive, got %d", f.cellPx)
	}
	if f.profile != "" && f.route == "" {
		return nil, errors.New("-profile needs -route")
	}
	return &f, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	warepath.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer warepath.SetLogger(nil)

	proj, err := config.LoadProject(f.project)
	if err != nil {
		return err
	}
	e := engine.New(engine.WithWorkers(f.workers))
	if err := proj.Apply(e); err != nil {
		return err
	}
	unit := f.unit
	if unit == "" {
		unit = proj.GetUnit()
	}

	snap, err := build(ctx, e, f.progress, stdout)
	if err != nil && snap == nil {
		return err
	}
	for _, ev := range snap.ErrorEvents() {
		fmt.Fprintf(stdout, "failed source %s: %s\n", ev.ID, ev.Err)
	}
	// An all-failed build still has a grid worth rendering.
	if err != nil && !errors.Is(err, precompute.ErrAllSourcesFailed) {
		return err
	}

	if f.gridPNG != "" {
		img, err := gridimage.Render(snap.Grid, f.cellPx)
		if err != nil {
			return err
		}
		if err := writePNG(f.gridPNG, img); err != nil {
			return err
		}
	}
	if f.heatmap != "" {
		if err := writeHeatMap(e, snap, f); err != nil {
			return err
		}
	}
	if err != nil {
		return err
	}

	tab, err := e.DistanceTable(snap)
	if err != nil {
		return err
	}
	printTable(stdout, tab, unit)

	if f.route != "" {
		return printRoute(e, snap, f, unit, stdout)
	}
	return nil
}

// build precomputes the engine's layout, optionally echoing progress.
func build(ctx context.Context, e *engine.Engine, progress bool, w io.Writer) (*engine.Snapshot, error) {
	b, err := e.Precompute(ctx)
	if err != nil {
		return nil, err
	}
	for ev := range b.Events() {
		if progress && ev.Kind == precompute.EventProgress {
			fmt.Fprintf(w, "precompute %3.0f%% (%d/%d) %s\n", ev.Fraction*100, ev.Completed, ev.Total, ev.Source)
		}
	}
	return b.Wait()
}

func printTable(w io.Writer, t *engine.Table, unit string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "aisle \\ staging (%s)", units.Abbrev(unit))
	for _, d := range t.Destinations {
		fmt.Fprintf(tw, "\t%s", d)
	}
	fmt.Fprintln(tw)
	for i, s := range t.Sources {
		fmt.Fprint(tw, s)
		for j := range t.Destinations {
			if t.Err(i, j) != nil {
				fmt.Fprintf(tw, "\t%s", engine.KindOf(t.Err(i, j)))
				continue
			}
			fmt.Fprintf(tw, "\t%.2f", units.Convert(t.Distance[i][j], t.Unit, unit))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

func printRoute(e *engine.Engine, snap *engine.Snapshot, f *cliFlags, unit string, w io.Writer) error {
	aisle, staging, ok := strings.Cut(f.route, ":")
	if !ok || aisle == "" || staging == "" {
		return fmt.Errorf("invalid -route %q, want AISLE:STAGING", f.route)
	}
	p, err := e.Route(snap, aisle, staging)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "route %s -> %s: %.2f %s over %d cells\n",
		aisle, staging, units.Convert(p.Distance, snap.Settings.Unit, unit), units.Abbrev(unit), len(p.Cells))
	for _, pt := range p.Points {
		fmt.Fprintf(w, "  (%.2f, %.2f)\n", pt.X, pt.Y)
	}
	if f.profile == "" {
		return nil
	}
	pl, err := pathplot.Profile(p, snap.Settings.Unit, unit)
	if err != nil {
		return err
	}
	out, err := os.Create(f.profile)
	if err != nil {
		return err
	}
	if err := pathplot.WritePNG(out, pl); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeHeatMap(e *engine.Engine, snap *engine.Snapshot, f *cliFlags) error {
	name := f.heatSrc
	if name == "" {
		for _, a := range snap.PickAisles {
			if _, ok := snap.Maps[a.Name]; ok {
				name = a.Name
				break
			}
		}
	}
	sm, ok := snap.Maps[name]
	if !ok {
		return fmt.Errorf("%w: no distance map for pick aisle %q", engine.ErrNotFound, name)
	}
	img, err := gridimage.HeatMap(snap.Grid, sm.Maps, f.cellPx)
	if err != nil {
		return err
	}
	// Overlay the -route path when it starts at the heat map source.
	if aisle, staging, _ := strings.Cut(f.route, ":"); aisle == name {
		p, err := e.Route(snap, aisle, staging)
		if err != nil {
			return err
		}
		if err := gridimage.DrawPath(img, snap.Grid.Frame, p.Points, f.cellPx, float32(f.cellPx)/2, color.Black); err != nil {
			return err
		}
	}
	return writePNG(f.heatmap, img)
}

func writePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
