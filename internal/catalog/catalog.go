// Package catalog parses SPCAT/JPL-format molecular line catalogs.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/laserkelvin/Spectron3000/internal/model"
)

// Field boundaries of an SPCAT catalog line. Fields are read by column
// position; whitespace inside a line carries no meaning.
const (
	freqEnd  = 13 // FREQ   cols  1-13, rest frequency in MHz
	errEnd   = 21 // ERR    cols 14-21, frequency uncertainty in MHz
	lgintEnd = 29 // LGINT  cols 22-29, log10 intensity at 300 K
	drEnd    = 31 // DR     cols 30-31, degrees of freedom (unused)
	eloEnd   = 41 // ELO    cols 32-41, lower state energy in cm^-1
	gupEnd   = 44 // GUP    cols 42-44, upper state degeneracy
)

// Warning records one rejected catalog line. Parsing continues past it.
type Warning struct {
	Line   int    `json:"line"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (w Warning) Error() string {
	return fmt.Sprintf("catalog line %d: %s: %s", w.Line, w.Field, w.Reason)
}

// Parse reads an SPCAT-format catalog and returns the accepted transitions
// in file order, paired with one warning per rejected line. Malformed
// content never aborts the parse; the error return is reserved for read
// failures. The returned catalog evaluates its partition function as the
// Boltzmann state sum over the accepted transitions.
func Parse(r io.Reader, molecule string) (*model.Catalog, []Warning, error) {
	var (
		transitions []model.Transition
		warnings    []Warning
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		tr, warn := parseLine(line, lineNo)
		if warn != nil {
			warnings = append(warnings, *warn)
			continue
		}
		transitions = append(transitions, tr)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read catalog: %w", err)
	}

	cat := &model.Catalog{
		Molecule:              molecule,
		Transitions:           transitions,
		Partition:             model.NewStateSumPartition(transitions),
		ReferenceTemperatureK: model.ReferenceTemperatureK,
	}
	return cat, warnings, nil
}

// parseLine extracts one transition from a fixed-width catalog line.
func parseLine(line string, lineNo int) (model.Transition, *Warning) {
	var tr model.Transition
	if len(line) < gupEnd {
		return tr, &Warning{Line: lineNo, Field: "line", Reason: "too short"}
	}

	freq, reason := parseFloat(line, 0, freqEnd)
	if reason == "" && !(freq > 0) {
		reason = "must be positive"
	}
	if reason != "" {
		return tr, &Warning{Line: lineNo, Field: "FREQ", Reason: reason}
	}

	uncertainty, reason := parseFloat(line, freqEnd, errEnd)
	if reason != "" {
		return tr, &Warning{Line: lineNo, Field: "ERR", Reason: reason}
	}

	lgint, reason := parseFloat(line, errEnd, lgintEnd)
	if reason != "" {
		return tr, &Warning{Line: lineNo, Field: "LGINT", Reason: reason}
	}

	elo, reason := parseFloat(line, drEnd, eloEnd)
	if reason == "" && !(elo >= 0) {
		reason = "must be non-negative"
	}
	if reason != "" {
		return tr, &Warning{Line: lineNo, Field: "ELO", Reason: reason}
	}

	gup, reason := parseInt(line, eloEnd, gupEnd)
	if reason == "" && gup < 1 {
		reason = "must be at least 1"
	}
	if reason != "" {
		return tr, &Warning{Line: lineNo, Field: "GUP", Reason: reason}
	}

	tr = model.Transition{
		FrequencyMHz:         freq,
		UncertaintyMHz:       uncertainty,
		LogIntensity:         lgint,
		LowerStateEnergy:     elo,
		UpperStateDegeneracy: gup,
	}
	return tr, nil
}

func parseFloat(line string, from, to int) (float64, string) {
	raw := strings.TrimSpace(line[from:to])
	if raw == "" {
		return 0, "empty field"
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Sprintf("not a number: %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "not finite"
	}
	return v, ""
}

func parseInt(line string, from, to int) (int, string) {
	raw := strings.TrimSpace(line[from:to])
	if raw == "" {
		return 0, "empty field"
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Sprintf("not a number: %q", raw)
	}
	return v, ""
}

// MoleculeFromFilename derives the molecule name from an uploaded catalog
// filename: the base name with its extension removed.
func MoleculeFromFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}
