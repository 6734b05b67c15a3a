package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/laserkelvin/Spectron3000/internal/catalog"
	"github.com/laserkelvin/Spectron3000/internal/model"
	"github.com/laserkelvin/Spectron3000/internal/overlay"
	"github.com/laserkelvin/Spectron3000/internal/session"
	"github.com/laserkelvin/Spectron3000/internal/spectrum"
	"github.com/laserkelvin/Spectron3000/internal/synth"
)

// spectrumResponse summarizes a loaded observation.
type spectrumResponse struct {
	Comment string `json:"comment"`
	Points  int    `json:"points"`
}

// catalogFileResponse reports one parsed catalog upload. Warnings list the
// rejected lines; they never fail the upload.
type catalogFileResponse struct {
	Molecule    string            `json:"molecule"`
	Transitions int               `json:"transitions"`
	Warnings    []catalog.Warning `json:"warnings,omitempty"`
}

func (s *Server) handleSpectrumUpload(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessionFor(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.limitBody(w, r)
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, errTooLarge.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid upload payload")
		return
	}

	raw, err := decodeDataURL(req.Contents, s.cfg.Upload.MaxBytes)
	if errors.Is(err, errTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	obs, err := spectrum.Load(bytes.NewReader(raw), req.Filename)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	state.Lock()
	defer state.Unlock()

	state.SetSpectrum(obs)
	if err := s.resynthesize(state); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.Uploads.WithLabelValues("spectrum").Inc()
	writeJSON(w, http.StatusOK, spectrumResponse{
		Comment: obs.Comment,
		Points:  len(obs.FrequencyMHz),
	})
}

func (s *Server) handleCatalogUpload(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessionFor(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.limitBody(w, r)
	var req catalogUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, errTooLarge.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid upload payload")
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, "no files in upload")
		return
	}

	// Decode and parse everything before touching the session, so a bad
	// file cannot leave a half-applied batch behind.
	type parsedUpload struct {
		cat      *model.Catalog
		warnings []catalog.Warning
	}
	parsed := make([]parsedUpload, 0, len(req.Files))
	for _, f := range req.Files {
		molecule := catalog.MoleculeFromFilename(f.Filename)
		if molecule == "" {
			writeError(w, http.StatusBadRequest, "upload is missing a filename")
			return
		}

		raw, err := decodeDataURL(f.Contents, s.cfg.Upload.MaxBytes)
		if errors.Is(err, errTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("%s: %s", f.Filename, err))
			return
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s: %s", f.Filename, err))
			return
		}

		cat, warnings, err := catalog.Parse(bytes.NewReader(raw), molecule)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s: %s", f.Filename, err))
			return
		}
		parsed = append(parsed, parsedUpload{cat: cat, warnings: warnings})
	}

	state.Lock()
	defer state.Unlock()

	files := make([]catalogFileResponse, 0, len(parsed))
	for _, p := range parsed {
		state.AddCatalog(p.cat)
		s.metrics.Uploads.WithLabelValues("catalog").Inc()
		s.metrics.UploadWarnings.Add(float64(len(p.warnings)))
		files = append(files, catalogFileResponse{
			Molecule:    p.cat.Molecule,
			Transitions: len(p.cat.Transitions),
			Warnings:    p.warnings,
		})
	}

	if err := s.resynthesize(state); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessionFor(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	state.Lock()
	defer state.Unlock()

	obs := state.Spectrum()
	if obs == nil {
		writeError(w, http.StatusConflict, "no spectrum loaded")
		return
	}
	if err := s.resynthesize(state); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries := state.Entries()
	synthetics := make([]overlay.Synthetic, 0, len(entries))
	for _, e := range entries {
		synthetics = append(synthetics, overlay.Synthetic{
			Molecule:  e.Catalog.Molecule,
			Intensity: e.Trace,
		})
	}

	fig, err := overlay.Assemble(obs, synthetics)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessionFor(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	state.Lock()
	rows := state.Rows()
	state.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// handleCatalogItem routes /api/catalogs/{molecule} and
// /api/catalogs/{molecule}/params.
func (s *Server) handleCatalogItem(w http.ResponseWriter, r *http.Request, remainder string) {
	segments := strings.Split(remainder, "/")
	molecule, err := url.PathUnescape(segments[0])
	if err != nil || molecule == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(segments) == 1:
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleRemoveCatalog(w, r, molecule)
	case len(segments) == 2 && segments[1] == "params":
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleUpdateParams(w, r, molecule)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleUpdateParams(w http.ResponseWriter, r *http.Request, molecule string) {
	state, err := s.sessionFor(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var params model.FitParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid parameter payload")
		return
	}

	// Validate before mutating: a rejected set must leave the molecule's
	// cached trace untouched.
	params = params.Normalize()
	if err := synth.ValidateParams(params); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	state.Lock()
	defer state.Unlock()

	if _, err := state.UpdateParams(molecule, params); err != nil {
		if errors.Is(err, session.ErrUnknownMolecule) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.resynthesize(state); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"molecule": molecule, "params": params})
}

func (s *Server) handleRemoveCatalog(w http.ResponseWriter, r *http.Request, molecule string) {
	state, err := s.sessionFor(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	state.Lock()
	defer state.Unlock()

	if err := state.RemoveCatalog(molecule); err != nil {
		if errors.Is(err, session.ErrUnknownMolecule) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resynthesize fills every missing trace on the session's current grid.
// Callers hold the state lock. Without an observation there is no grid,
// so traces stay empty until one arrives.
func (s *Server) resynthesize(state *session.State) error {
	obs := state.Spectrum()
	if obs == nil {
		return nil
	}
	for _, e := range state.Entries() {
		if e.Trace != nil {
			continue
		}
		start := time.Now()
		trace, err := s.engine.Synthesize(e.Catalog, e.Params, obs.FrequencyMHz)
		if err != nil {
			return fmt.Errorf("synthesize %s: %w", e.Catalog.Molecule, err)
		}
		e.Trace = trace
		s.metrics.Syntheses.Inc()
		s.metrics.SynthesisSecs.Observe(time.Since(start).Seconds())
	}
	return nil
}
