package worker

import (
	"context"

	"github.com/laserkelvin/Spectron3000/internal/model"
)

// Synthesizer defines the interface for computing one synthetic spectrum
type Synthesizer interface {
	Synthesize(cat *model.Catalog, params model.FitParams, grid []float64) ([]float64, error)
}

// SynthRequest names one catalog/parameter pairing to synthesize
type SynthRequest struct {
	Catalog *model.Catalog
	Params  model.FitParams
}

// SynthJob represents one molecule's synthesis job
type SynthJob struct {
	Engine  Synthesizer
	Catalog *model.Catalog
	Params  model.FitParams
	Grid    []float64
}

// Execute executes the synthesis job
func (j *SynthJob) Execute(_ context.Context) Result {
	trace, err := j.Engine.Synthesize(j.Catalog, j.Params, j.Grid)
	return &SynthResult{
		Molecule: j.Catalog.Molecule,
		Trace:    trace,
		Error:    err,
	}
}

// SynthResult represents the result of a synthesis job
type SynthResult struct {
	Molecule string
	Trace    []float64
	Error    error
}

// GetError returns the error from the synthesis result
func (r *SynthResult) GetError() error {
	return r.Error
}

// BatchSynthesizer synthesizes multiple catalogs concurrently
type BatchSynthesizer struct {
	engine      Synthesizer
	concurrency int
}

// NewBatchSynthesizer creates a new batch synthesizer
func NewBatchSynthesizer(engine Synthesizer, concurrency int) *BatchSynthesizer {
	return &BatchSynthesizer{
		engine:      engine,
		concurrency: concurrency,
	}
}

// SynthesizeAll computes one trace per request on the shared grid,
// concurrently, returning results in request order. Synthesis calls share
// no mutable state, so they are safe to run in parallel.
func (b *BatchSynthesizer) SynthesizeAll(ctx context.Context, requests []SynthRequest, grid []float64) []*SynthResult {
	if len(requests) == 0 {
		return []*SynthResult{}
	}

	pool := NewPool(b.concurrency)
	for _, req := range requests {
		pool.Submit(&SynthJob{
			Engine:  b.engine,
			Catalog: req.Catalog,
			Params:  req.Params,
			Grid:    grid,
		})
	}

	results := pool.Run(ctx)
	out := make([]*SynthResult, len(results))
	for i, result := range results {
		if result == nil {
			// job never started before cancellation
			continue
		}
		out[i] = result.(*SynthResult)
	}
	return out
}
