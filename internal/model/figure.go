package model

// Trace is one renderable series of the overlay figure, shaped for a
// Plotly scattergl consumer.
type Trace struct {
	Type    string    `json:"type"`
	X       []float64 `json:"x"`
	Y       []float64 `json:"y"`
	Name    string    `json:"name"`
	Opacity float64   `json:"opacity,omitempty"`
}

// Axis labels one figure axis.
type Axis struct {
	Title      string `json:"title"`
	TickFormat string `json:"tickformat"`
}

// Legend positions the figure legend.
type Legend struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout carries the fixed presentation settings of the overlay figure.
type Layout struct {
	XAxis     Axis   `json:"xaxis"`
	YAxis     Axis   `json:"yaxis"`
	HoverMode string `json:"hovermode"`
	Legend    Legend `json:"legend"`
}

// DefaultLayout returns the standard axis titles, tick formatting and
// legend placement.
func DefaultLayout() Layout {
	return Layout{
		XAxis:     Axis{Title: "Frequency (MHz)", TickFormat: ".,"},
		YAxis:     Axis{Title: "Flux (Jy/beam)", TickFormat: ".,"},
		HoverMode: "closest",
		Legend:    Legend{X: 1.0, Y: 1.0},
	}
}

// Figure is the assembled overlay: the observation trace followed by one
// synthetic trace per molecule in catalog load order.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// ParamRow is one row of the editable parameter table, in catalog load
// order.
type ParamRow struct {
	Molecule      string        `json:"molecule"`
	TemperatureK  float64       `json:"temperature_k"`
	ColumnDensity float64       `json:"column_density"`
	Linewidth     float64       `json:"linewidth"`
	LinewidthUnit LinewidthUnit `json:"linewidth_unit"`
	OffsetMHz     float64       `json:"offset_mhz"`
}
