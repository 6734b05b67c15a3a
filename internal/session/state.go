package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/laserkelvin/Spectron3000/internal/model"
)

// ErrUnknownMolecule is returned for operations on a molecule that was
// never loaded into the session.
var ErrUnknownMolecule = errors.New("unknown molecule")

// Entry pairs one loaded catalog with its fit parameters and the cached
// synthetic trace on the current grid. A nil trace means the molecule
// needs synthesizing.
type Entry struct {
	Catalog *model.Catalog
	Params  model.FitParams
	Trace   []float64
}

// State holds everything one session has loaded. Methods do not lock:
// callers hold the embedded mutex across one full recompute cycle, which
// serializes the actions on a session.
type State struct {
	sync.Mutex

	defaults model.FitParams
	spectrum *model.Spectrum
	entries  []*Entry
}

// NewState creates empty session state seeding new catalogs with defaults.
func NewState(defaults model.FitParams) *State {
	return &State{defaults: defaults.Normalize()}
}

// SetSpectrum replaces the observation and drops every cached trace: the
// evaluation grid changed.
func (s *State) SetSpectrum(spec *model.Spectrum) {
	s.spectrum = spec
	for _, e := range s.entries {
		e.Trace = nil
	}
}

// Spectrum returns the loaded observation, nil when none is loaded.
func (s *State) Spectrum() *model.Spectrum {
	return s.spectrum
}

// AddCatalog appends a catalog with freshly seeded default parameters. A
// molecule that is already loaded is replaced in place, keeping its load
// position; replacement counts as a new ingestion, so its parameters reset
// to the defaults and its trace is dropped.
func (s *State) AddCatalog(cat *model.Catalog) *Entry {
	for _, e := range s.entries {
		if e.Catalog.Molecule == cat.Molecule {
			e.Catalog = cat
			e.Params = s.defaults
			e.Trace = nil
			return e
		}
	}
	e := &Entry{Catalog: cat, Params: s.defaults}
	s.entries = append(s.entries, e)
	return e
}

// UpdateParams replaces a molecule's parameter set as a unit and drops
// only that molecule's cached trace.
func (s *State) UpdateParams(molecule string, params model.FitParams) (*Entry, error) {
	for _, e := range s.entries {
		if e.Catalog.Molecule == molecule {
			e.Params = params.Normalize()
			e.Trace = nil
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMolecule, molecule)
}

// RemoveCatalog deletes a molecule's entry together with its parameters
// and cached trace.
func (s *State) RemoveCatalog(molecule string) error {
	for i, e := range s.entries {
		if e.Catalog.Molecule == molecule {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownMolecule, molecule)
}

// Entries returns the loaded catalogs in load order.
func (s *State) Entries() []*Entry {
	return s.entries
}

// Rows snapshots the editable parameter table in load order.
func (s *State) Rows() []model.ParamRow {
	rows := make([]model.ParamRow, 0, len(s.entries))
	for _, e := range s.entries {
		rows = append(rows, model.ParamRow{
			Molecule:      e.Catalog.Molecule,
			TemperatureK:  e.Params.TemperatureK,
			ColumnDensity: e.Params.ColumnDensity,
			Linewidth:     e.Params.Linewidth,
			LinewidthUnit: e.Params.LinewidthUnit,
			OffsetMHz:     e.Params.OffsetMHz,
		})
	}
	return rows
}
