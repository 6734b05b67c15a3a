// Package overlay assembles observation and synthetic traces into a
// renderable figure.
package overlay

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/laserkelvin/Spectron3000/internal/model"
)

// ObservationOpacity dims the observed trace so synthetic lines stay
// readable on top of it.
const ObservationOpacity = 0.7

const traceType = "scattergl"

// Synthetic pairs a molecule name with its synthesized intensities on the
// observed grid.
type Synthetic struct {
	Molecule  string
	Intensity []float64
}

// Assemble builds the overlay figure: the observation trace first, then
// one trace per molecule in the order given, all sharing the observed
// frequency grid. Assembly performs no computation beyond composition.
func Assemble(obs *model.Spectrum, synthetics []Synthetic) (*model.Figure, error) {
	if obs == nil || obs.Points() == 0 {
		return nil, fmt.Errorf("assemble overlay: no observation loaded")
	}

	fig := &model.Figure{
		Data:   make([]model.Trace, 0, len(synthetics)+1),
		Layout: model.DefaultLayout(),
	}
	fig.Data = append(fig.Data, model.Trace{
		Type:    traceType,
		X:       obs.FrequencyMHz,
		Y:       obs.Intensity,
		Name:    obs.Comment,
		Opacity: ObservationOpacity,
	})

	for _, s := range synthetics {
		if len(s.Intensity) != obs.Points() {
			return nil, fmt.Errorf("assemble overlay: %s: %d samples on a %d point grid",
				s.Molecule, len(s.Intensity), obs.Points())
		}
		fig.Data = append(fig.Data, model.Trace{
			Type: traceType,
			X:    obs.FrequencyMHz,
			Y:    s.Intensity,
			Name: s.Molecule,
		})
	}
	return fig, nil
}

// WriteTable writes the parameter table as CSV in catalog load order.
func WriteTable(w io.Writer, rows []model.ParamRow) error {
	cw := csv.NewWriter(w)
	header := []string{"Molecule", "Temperature (K)", "Column Density (cm^-2)", "Linewidth", "Unit", "Offset (MHz)"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Molecule,
			formatFloat(r.TemperatureK),
			formatFloat(r.ColumnDensity),
			formatFloat(r.Linewidth),
			string(r.LinewidthUnit),
			formatFloat(r.OffsetMHz),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write table row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
