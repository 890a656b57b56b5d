package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rshade/cellscope/internal/engine"
	"github.com/rshade/cellscope/internal/greenops"
	"github.com/rshade/cellscope/internal/logging"
	"github.com/rshade/cellscope/internal/refdata"
	"github.com/rshade/cellscope/internal/runner"
	"github.com/rshade/cellscope/internal/scenario"
	"github.com/rshade/cellscope/pkg/version"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string        `json:"error"`
	Fields []FieldDetail `json:"fields,omitempty"`
}

// FieldDetail names one invalid configuration field.
type FieldDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Fingerprint string `json:"reference_fingerprint"`
}

// ReferenceDataResponse is returned by GET /api/reference-data.
type ReferenceDataResponse struct {
	Fingerprint          string                `json:"fingerprint"`
	CarbonPriceScenarios []string              `json:"carbon_price_scenarios"`
	Data                 refdata.ReferenceData `json:"data"`
}

// ComputeResponse is returned by POST /api/scenarios/compute.
type ComputeResponse struct {
	runner.Run

	Equivalents *greenops.EquivalencyOutput `json:"equivalents,omitempty"`
}

// CompareRequest is the body of POST /api/scenarios/compare. Variants, when
// given, are computed as-is; otherwise Base is expanded over Axes.
type CompareRequest struct {
	Base     *json.RawMessage  `json:"base,omitempty"`
	Axes     CompareAxes       `json:"axes"`
	Variants []json.RawMessage `json:"variants,omitempty"`
}

// CompareAxes lists the values to sweep.
type CompareAxes struct {
	Locations   []scenario.Location  `json:"locations,omitempty"`
	Strategies  []scenario.Strategy  `json:"strategies,omitempty"`
	Chemistries []scenario.Chemistry `json:"chemistries,omitempty"`
}

// CompareResponse is returned by POST /api/scenarios/compare.
type CompareResponse struct {
	Results []*scenario.Result `json:"results"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Version:     version.GetVersion(),
		Fingerprint: s.runner.Engine().Registry().Fingerprint(),
	})
}

func (s *Server) handleReferenceData(w http.ResponseWriter, _ *http.Request) {
	reg := s.runner.Engine().Registry()
	s.writeJSON(w, http.StatusOK, ReferenceDataResponse{
		Fingerprint:          reg.Fingerprint(),
		CarbonPriceScenarios: reg.CarbonPriceScenarios(),
		Data:                 reg.Snapshot(),
	})
}

func (s *Server) handleDefaults(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.defaults)
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	cfg, given, err := s.scenarioFrom(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	reg := s.runner.Engine().Registry()
	run, err := s.runner.Run(r.Context(), reg.FillGridFactor(cfg, given.GridFactor))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := ComputeResponse{Run: run}
	if eq, eqErr := greenops.FromTonnes(run.Result.TotalEmissions); eqErr == nil && !eq.IsEmpty {
		resp.Equivalents = &eq
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CompareRequest
	if err := decodeStrict(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	eng := s.runner.Engine()
	reg := eng.Registry()
	var variants []scenario.Config
	if len(req.Variants) > 0 {
		for i, raw := range req.Variants {
			cfg, given, err := s.scenarioFrom(bytes.NewReader(raw))
			if err != nil {
				s.writeError(w, r, fmt.Errorf("variants[%d]: %w", i, err))
				return
			}
			variants = append(variants, reg.FillGridFactor(cfg, given.GridFactor))
		}
	} else {
		base, given := s.defaults.Clone(), s.defaultPresence()
		if req.Base != nil {
			var err error
			if base, given, err = s.scenarioFrom(bytes.NewReader(*req.Base)); err != nil {
				s.writeError(w, r, fmt.Errorf("base: %w", err))
				return
			}
		}
		for _, v := range engine.Expand(base, engine.Axes{
			Locations:   req.Axes.Locations,
			Strategies:  req.Axes.Strategies,
			Chemistries: req.Axes.Chemistries,
		}) {
			variants = append(variants, reg.FillGridFactor(v, given.GridFactor))
		}
	}

	results, err := eng.Compare(r.Context(), variants)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, CompareResponse{Results: results})
}

// scenarioFrom decodes a scenario body onto a copy of the defaults. An
// empty body yields the defaults. carbon_price and materials in the body
// replace the defaults' whole.
func (s *Server) scenarioFrom(body io.Reader) (scenario.Config, scenario.Presence, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return scenario.Config{}, scenario.Presence{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}

	cfg := s.defaults.Clone()
	if err := decodeStrict(bytes.NewReader(data), &cfg); err != nil {
		return scenario.Config{}, scenario.Presence{}, err
	}
	cfg, given, err := scenario.Overlay(cfg, data, json.Unmarshal)
	if err != nil {
		return scenario.Config{}, scenario.Presence{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	given.GridFactor = given.GridFactor || s.defaultPresence().GridFactor
	return cfg, given, nil
}

// defaultPresence treats a non-zero grid factor in the defaults as given.
func (s *Server) defaultPresence() scenario.Presence {
	return scenario.Presence{GridFactor: s.defaults.Sources.Grid.EmissionFactor != 0}
}

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("malformed request body")

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON value", errBadRequest)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError maps engine errors to status codes: invalid input is 400,
// undefined regression math is 422, everything else 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, scenario.ErrInvalidConfiguration):
		status = http.StatusBadRequest
		resp.Fields = fieldDetails(err)
	case errors.Is(err, scenario.ErrDomainMath):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	s.writeJSON(w, status, resp)
}

// fieldDetails collects every *scenario.FieldError in err's tree.
func fieldDetails(err error) []FieldDetail {
	var out []FieldDetail
	var walk func(error)
	walk = func(e error) {
		if fe, ok := e.(*scenario.FieldError); ok {
			out = append(out, FieldDetail{Field: fe.Field, Reason: fe.Reason})
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			if inner := u.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)
	return out
}
