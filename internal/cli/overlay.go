package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/laserkelvin/Spectron3000/internal/catalog"
	"github.com/laserkelvin/Spectron3000/internal/model"
	"github.com/laserkelvin/Spectron3000/internal/overlay"
	"github.com/laserkelvin/Spectron3000/internal/spectrum"
	"github.com/laserkelvin/Spectron3000/internal/synth"
	"github.com/laserkelvin/Spectron3000/internal/worker"
)

var (
	figureOut   string
	tableOut    string
	concurrency int
	temperature float64
	density     float64
	width       float64
	widthUnit   string
	offset      float64
)

// overlayCmd represents the overlay command
var overlayCmd = &cobra.Command{
	Use:   "overlay <spectrum.tsv> <catalog.cat> [catalog.cat ...]",
	Short: "Synthesize catalogs over an observed spectrum and write the figure",
	Long: `Overlay runs one headless assignment cycle:
- Load a tab-separated observed spectrum
- Parse each SPCAT/JPL catalog
- Synthesize every molecule on the observed grid in parallel
- Write the Plotly-shaped figure JSON and, optionally, the parameter table

The parameter flags apply to every molecule in the run.

Example:
  spectron3000 overlay obs.tsv ch3cn.cat hc5n.cat
  spectron3000 overlay obs.tsv ch3cn.cat --temperature 150 --density 1e16
  spectron3000 overlay obs.tsv ch3cn.cat --json figure.json --table params.csv`,
	Args: cobra.MinimumNArgs(2),
	RunE: runOverlay,
}

func init() {
	rootCmd.AddCommand(overlayCmd)

	// Output flags
	overlayCmd.Flags().StringVar(&figureOut, "json", "figure.json", "output figure JSON path")
	overlayCmd.Flags().StringVar(&tableOut, "table", "", "output parameter table CSV path (optional)")

	// Concurrency flags
	overlayCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent synthesis workers")

	// Fit parameter overrides, applied to all molecules
	overlayCmd.Flags().Float64Var(&temperature, "temperature", model.ReferenceTemperatureK, "excitation temperature in K")
	overlayCmd.Flags().Float64Var(&density, "density", 1e15, "column density in cm^-2")
	overlayCmd.Flags().Float64Var(&width, "width", 5.0, "linewidth")
	overlayCmd.Flags().StringVar(&widthUnit, "width-unit", string(model.LinewidthKms), "linewidth unit (km/s or MHz)")
	overlayCmd.Flags().Float64Var(&offset, "offset", 0, "frequency offset in MHz")
}

func runOverlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	params := cfg.Defaults.Normalize()
	if cmd.Flags().Changed("temperature") {
		params.TemperatureK = temperature
	}
	if cmd.Flags().Changed("density") {
		params.ColumnDensity = density
	}
	if cmd.Flags().Changed("width") {
		params.Linewidth = width
	}
	if cmd.Flags().Changed("width-unit") {
		params.LinewidthUnit = model.LinewidthUnit(widthUnit)
	}
	if cmd.Flags().Changed("offset") {
		params.OffsetMHz = offset
	}
	if err := synth.ValidateParams(params); err != nil {
		return err
	}

	workers := cfg.Synthesis.Workers
	if cmd.Flags().Changed("concurrency") {
		workers = concurrency
	}

	obs, err := loadSpectrumFile(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %s (%d points)\n", args[0], len(obs.FrequencyMHz))

	requests := make([]worker.SynthRequest, 0, len(args)-1)
	warningCounts := make([]int, 0, len(args)-1)
	for _, path := range args[1:] {
		cat, warnings, err := loadCatalogFile(path)
		if err != nil {
			return err
		}
		if verbose {
			for _, w := range warnings {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", cat.Molecule, w)
			}
		}
		requests = append(requests, worker.SynthRequest{Catalog: cat, Params: params})
		warningCounts = append(warningCounts, len(warnings))
	}

	engine := synth.NewEngine(cfg.Synthesis)
	batch := worker.NewBatchSynthesizer(engine, workers)
	results := batch.SynthesizeAll(context.Background(), requests, obs.FrequencyMHz)

	synthetics := make([]overlay.Synthetic, 0, len(results))
	rows := make([]model.ParamRow, 0, len(results))
	for i, res := range results {
		if res == nil {
			continue
		}
		if res.Error != nil {
			return fmt.Errorf("synthesize %s: %w", res.Molecule, res.Error)
		}
		synthetics = append(synthetics, overlay.Synthetic{
			Molecule:  res.Molecule,
			Intensity: res.Trace,
		})
		rows = append(rows, model.ParamRow{
			Molecule:      res.Molecule,
			TemperatureK:  params.TemperatureK,
			ColumnDensity: params.ColumnDensity,
			Linewidth:     params.Linewidth,
			LinewidthUnit: params.LinewidthUnit,
			OffsetMHz:     params.OffsetMHz,
		})
		fmt.Fprintf(os.Stderr, "✓ %s: %d transitions, %d rejected lines, peak %.3g Jy/beam\n",
			res.Molecule, len(requests[i].Catalog.Transitions), warningCounts[i], peakOf(res.Trace))
	}

	fig, err := overlay.Assemble(obs, synthetics)
	if err != nil {
		return err
	}
	if err := writeFigureFile(figureOut, fig); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %s (%d traces)\n", figureOut, len(fig.Data))

	if tableOut != "" {
		if err := writeTableFile(tableOut, rows); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", tableOut)
	}

	return nil
}

func loadSpectrumFile(path string) (*model.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spectrum: %w", err)
	}
	defer func() { _ = f.Close() }()

	obs, err := spectrum.Load(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load spectrum %s: %w", path, err)
	}
	return obs, nil
}

func loadCatalogFile(path string) (*model.Catalog, []catalog.Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	cat, warnings, err := catalog.Parse(f, catalog.MoleculeFromFilename(path))
	if err != nil {
		return nil, nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return cat, warnings, nil
}

func writeFigureFile(path string, fig *model.Figure) error {
	raw, err := json.MarshalIndent(fig, "", "  ")
	if err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write figure: %w", err)
	}
	return nil
}

func writeTableFile(path string, rows []model.ParamRow) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close table: %w", closeErr)
		}
	}()

	if err := overlay.WriteTable(f, rows); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

func peakOf(trace []float64) float64 {
	peak := 0.0
	for _, v := range trace {
		if v > peak {
			peak = v
		}
	}
	return peak
}
