package session

import (
	"errors"
	"testing"
	"time"

	"github.com/laserkelvin/Spectron3000/internal/model"
)

func testCatalog(molecule string) *model.Catalog {
	transitions := []model.Transition{
		{FrequencyMHz: 100000.0, LogIntensity: -3.0, UpperStateDegeneracy: 1},
	}
	return &model.Catalog{
		Molecule:              molecule,
		Transitions:           transitions,
		Partition:             model.NewStateSumPartition(transitions),
		ReferenceTemperatureK: 300.0,
	}
}

func testSpectrum(comment string) *model.Spectrum {
	return &model.Spectrum{
		Comment:      comment,
		FrequencyMHz: []float64{100000.0, 100001.0},
		Intensity:    []float64{0.1, 0.2},
	}
}

func TestStateSpectrumReplacementDropsAllTraces(t *testing.T) {
	st := NewState(model.DefaultFitParams())
	st.SetSpectrum(testSpectrum("first.tsv"))

	a := st.AddCatalog(testCatalog("a"))
	b := st.AddCatalog(testCatalog("b"))
	a.Trace = []float64{1, 2}
	b.Trace = []float64{3, 4}

	st.SetSpectrum(testSpectrum("second.tsv"))
	if a.Trace != nil || b.Trace != nil {
		t.Error("replacing the spectrum must drop every cached trace")
	}
	if st.Spectrum().Comment != "second.tsv" {
		t.Errorf("spectrum comment = %q, want second.tsv", st.Spectrum().Comment)
	}
}

func TestStateUpdateParamsDropsOnlyThatTrace(t *testing.T) {
	st := NewState(model.DefaultFitParams())
	a := st.AddCatalog(testCatalog("a"))
	b := st.AddCatalog(testCatalog("b"))
	a.Trace = []float64{1, 2}
	b.Trace = []float64{3, 4}

	params := model.DefaultFitParams()
	params.TemperatureK = 150.0
	entry, err := st.UpdateParams("a", params)
	if err != nil {
		t.Fatalf("UpdateParams returned error: %v", err)
	}
	if entry.Trace != nil {
		t.Error("edited molecule keeps a stale trace")
	}
	if b.Trace == nil {
		t.Error("unrelated molecule lost its trace")
	}
	if entry.Params.TemperatureK != 150.0 {
		t.Errorf("temperature = %g, want 150", entry.Params.TemperatureK)
	}
}

func TestStateUpdateParamsUnknownMolecule(t *testing.T) {
	st := NewState(model.DefaultFitParams())
	_, err := st.UpdateParams("nope", model.DefaultFitParams())
	if !errors.Is(err, ErrUnknownMolecule) {
		t.Fatalf("expected ErrUnknownMolecule, got %v", err)
	}
}

func TestStateAddCatalogReplacesInPlace(t *testing.T) {
	st := NewState(model.DefaultFitParams())
	st.AddCatalog(testCatalog("a"))
	entry := st.AddCatalog(testCatalog("b"))
	st.AddCatalog(testCatalog("c"))

	edited := model.DefaultFitParams()
	edited.ColumnDensity = 9e9
	if _, err := st.UpdateParams("b", edited); err != nil {
		t.Fatalf("UpdateParams returned error: %v", err)
	}
	entry.Trace = []float64{1}

	replacement := st.AddCatalog(testCatalog("b"))
	if replacement != entry {
		t.Fatal("replacement must reuse the existing entry")
	}
	if replacement.Trace != nil {
		t.Error("replacement keeps a stale trace")
	}
	if replacement.Params.ColumnDensity != model.DefaultFitParams().ColumnDensity {
		t.Error("replacement must reset parameters to the defaults")
	}

	order := st.Entries()
	names := []string{order[0].Catalog.Molecule, order[1].Catalog.Molecule, order[2].Catalog.Molecule}
	want := []string{"a", "b", "c"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("load order = %v, want %v", names, want)
		}
	}
}

func TestStateRemoveCatalog(t *testing.T) {
	st := NewState(model.DefaultFitParams())
	st.AddCatalog(testCatalog("a"))
	st.AddCatalog(testCatalog("b"))

	if err := st.RemoveCatalog("a"); err != nil {
		t.Fatalf("RemoveCatalog returned error: %v", err)
	}
	if len(st.Entries()) != 1 || st.Entries()[0].Catalog.Molecule != "b" {
		t.Error("remove must keep the remaining entries in order")
	}
	if err := st.RemoveCatalog("a"); !errors.Is(err, ErrUnknownMolecule) {
		t.Fatalf("expected ErrUnknownMolecule, got %v", err)
	}
}

func TestStateRows(t *testing.T) {
	st := NewState(model.DefaultFitParams())
	st.AddCatalog(testCatalog("a"))
	st.AddCatalog(testCatalog("b"))

	rows := st.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Molecule != "a" || rows[1].Molecule != "b" {
		t.Error("rows must keep catalog load order")
	}
	defaults := model.DefaultFitParams()
	if rows[0].ColumnDensity != defaults.ColumnDensity || rows[0].TemperatureK != defaults.TemperatureK {
		t.Error("rows must reflect the seeded defaults")
	}
	if rows[0].LinewidthUnit != model.LinewidthKms {
		t.Errorf("linewidth unit = %q, want km/s", rows[0].LinewidthUnit)
	}
}

func TestStoreGetOrCreate(t *testing.T) {
	store := NewStore(model.SessionConfig{TTL: time.Minute, CleanupInterval: time.Minute}, model.DefaultFitParams())

	id, st, err := store.GetOrCreate("")
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if id == "" || st == nil {
		t.Fatal("expected a minted session ID with fresh state")
	}
	if len(id) != 32 {
		t.Errorf("session ID length = %d, want 32 hex chars", len(id))
	}

	again, st2, err := store.GetOrCreate(id)
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if again != id || st2 != st {
		t.Error("existing session must be reused")
	}
	if store.Count() != 1 {
		t.Errorf("count = %d, want 1", store.Count())
	}

	otherID, other, err := store.GetOrCreate("")
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if otherID == id || other == st {
		t.Error("sessions must be isolated from each other")
	}
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(model.SessionConfig{TTL: 20 * time.Millisecond, CleanupInterval: time.Hour}, model.DefaultFitParams())

	id, st, err := store.GetOrCreate("")
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	st.AddCatalog(testCatalog("a"))

	time.Sleep(40 * time.Millisecond)
	if _, ok := store.Get(id); ok {
		t.Fatal("expired session still retrievable")
	}

	// the same ID returns fresh state after expiry
	_, fresh, err := store.GetOrCreate(id)
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if len(fresh.Entries()) != 0 {
		t.Error("expired session state must not survive")
	}
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(model.SessionConfig{TTL: time.Minute, CleanupInterval: time.Minute}, model.DefaultFitParams())
	id, _, err := store.GetOrCreate("")
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	store.Delete(id)
	if _, ok := store.Get(id); ok {
		t.Error("deleted session still retrievable")
	}
}
