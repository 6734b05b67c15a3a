package catalog

import (
	"fmt"
	"strings"
	"testing"
)

// catLine renders one transition in the fixed SPCAT column layout.
func catLine(freq, unc, lgint float64, dr int, elo float64, gup, tag, qnfmt int, qn string) string {
	return fmt.Sprintf("%13.4f%8.4f%8.4f%2d%10.4f%3d%7d%4d%s", freq, unc, lgint, dr, elo, gup, tag, qnfmt, qn)
}

func TestParseAcceptsWellFormedLines(t *testing.T) {
	input := strings.Join([]string{
		catLine(91987.0876, 0.0012, -4.1651, 3, 13.2430, 19, 41505, 303, " 5 0 0 0 0 0 4 0 0 0 0 0"),
		catLine(91985.3140, 0.0015, -4.6472, 3, 20.3981, 19, 41505, 303, " 5 1 0 0 0 0 4 1 0 0 0 0"),
		"",
		catLine(110383.5000, 0.0500, -3.9842, 3, 0.0000, 5, 41505, 303, " 6 0 0 0 0 0 5 0 0 0 0 0"),
	}, "\n")

	cat, warnings, err := Parse(strings.NewReader(input), "ch3cn")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if len(cat.Transitions) != 3 {
		t.Fatalf("expected 3 transitions, got %d", len(cat.Transitions))
	}
	if cat.Molecule != "ch3cn" {
		t.Errorf("molecule = %q, want %q", cat.Molecule, "ch3cn")
	}
	if cat.ReferenceTemperatureK != 300.0 {
		t.Errorf("reference temperature = %g, want 300", cat.ReferenceTemperatureK)
	}
	if cat.Partition == nil {
		t.Fatal("catalog is missing its partition function")
	}

	first := cat.Transitions[0]
	if first.FrequencyMHz != 91987.0876 {
		t.Errorf("frequency = %v, want 91987.0876", first.FrequencyMHz)
	}
	if first.UncertaintyMHz != 0.0012 {
		t.Errorf("uncertainty = %v, want 0.0012", first.UncertaintyMHz)
	}
	if first.LogIntensity != -4.1651 {
		t.Errorf("log intensity = %v, want -4.1651", first.LogIntensity)
	}
	if first.LowerStateEnergy != 13.2430 {
		t.Errorf("lower state energy = %v, want 13.2430", first.LowerStateEnergy)
	}
	if first.UpperStateDegeneracy != 19 {
		t.Errorf("degeneracy = %d, want 19", first.UpperStateDegeneracy)
	}

	// transitions keep catalog order
	if cat.Transitions[2].FrequencyMHz != 110383.5 {
		t.Errorf("third transition frequency = %v, want 110383.5", cat.Transitions[2].FrequencyMHz)
	}
}

func TestParseRejectsMalformedLines(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		field string
	}{
		{"too short", "  91987.0876  0.0012", "line"},
		{"negative frequency", catLine(-91987.0876, 0.0012, -4.1651, 3, 13.2430, 19, 41505, 303, ""), "FREQ"},
		{"zero frequency", catLine(0.0, 0.0012, -4.1651, 3, 13.2430, 19, 41505, 303, ""), "FREQ"},
		{"garbage frequency", "     abcdefgh  0.0012 -4.1651 3   13.2430 19  41505 303", "FREQ"},
		{"negative lower state energy", catLine(91987.0876, 0.0012, -4.1651, 3, -13.2430, 19, 41505, 303, ""), "ELO"},
		{"zero degeneracy", catLine(91987.0876, 0.0012, -4.1651, 3, 13.2430, 0, 41505, 303, ""), "GUP"},
		{"garbage degeneracy", catLine(91987.0876, 0.0012, -4.1651, 3, 13.2430, 19, 41505, 303, "")[:41] + " xy", "GUP"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			good := catLine(110383.5, 0.05, -3.9842, 3, 0.0, 5, 41505, 303, " 6 0 0 0 0 0 5 0 0 0 0 0")
			input := tc.line + "\n" + good

			cat, warnings, err := Parse(strings.NewReader(input), "test")
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if len(cat.Transitions) != 1 {
				t.Fatalf("expected 1 surviving transition, got %d", len(cat.Transitions))
			}
			if len(warnings) != 1 {
				t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
			}
			if warnings[0].Line != 1 {
				t.Errorf("warning line = %d, want 1", warnings[0].Line)
			}
			if warnings[0].Field != tc.field {
				t.Errorf("warning field = %q, want %q", warnings[0].Field, tc.field)
			}
			if warnings[0].Error() == "" {
				t.Error("warning renders an empty message")
			}
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	cat, warnings, err := Parse(strings.NewReader(""), "empty")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(cat.Transitions) != 0 {
		t.Errorf("expected no transitions, got %d", len(cat.Transitions))
	}
	if warnings != nil {
		t.Errorf("expected nil warnings, got %v", warnings)
	}
}

func TestParseKeepsDuplicateFrequencies(t *testing.T) {
	// duplicate rest frequencies are legitimate in catalogs (blended
	// quantum number assignments) and must all survive
	line := catLine(91987.0876, 0.0012, -4.1651, 3, 13.2430, 19, 41505, 303, "")
	cat, warnings, err := Parse(strings.NewReader(line+"\n"+line), "dup")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if len(cat.Transitions) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(cat.Transitions))
	}
}

func TestMoleculeFromFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ch3cn.cat", "ch3cn"},
		{"data/hc5n_v0.cat", "hc5n_v0"},
		{`C:\spectra\benzonitrile.cat`, "benzonitrile"},
		{"methanol", "methanol"},
		{".cat", ".cat"},
		{"so2.v2.cat", "so2.v2"},
	}
	for _, tc := range cases {
		if got := MoleculeFromFilename(tc.in); got != tc.want {
			t.Errorf("MoleculeFromFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
