package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/piwi3910/PalletCut/internal/cache"
	"github.com/piwi3910/PalletCut/internal/engine"
	"github.com/piwi3910/PalletCut/internal/export"
	"github.com/piwi3910/PalletCut/internal/gcode"
	"github.com/piwi3910/PalletCut/internal/layout"
	"github.com/piwi3910/PalletCut/internal/model"
)

// maxBody caps request bodies.
const maxBody = 1 << 20

// SolveRequest is one problem as posted by clients.
type SolveRequest struct {
	Label     string `json:"label"`
	Length    int    `json:"length"`
	Width     int    `json:"width"`
	BoxLength int    `json:"box_length"`
	BoxWidth  int    `json:"box_width"`
	Depth     int    `json:"depth"`
}

func (r SolveRequest) problem() model.Problem {
	p := model.NewProblem(r.Label, r.Length, r.Width, r.BoxLength, r.BoxWidth)
	p.Depth = r.Depth
	return p
}

// SolveResponse wraps a result with cache information.
type SolveResponse struct {
	model.Result
	Cached bool `json:"cached"`
}

// BatchItem is one entry of a batch response. Exactly one of Result and
// Error is set.
type BatchItem struct {
	Result *SolveResponse `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// CompareItem is one scenario of a comparison.
type CompareItem struct {
	Name      string `json:"name"`
	Depth     int    `json:"depth"`
	Count     int    `json:"count"`
	Optimal   bool   `json:"optimal"`
	Method    string `json:"method"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

// GCodeRequest asks for a toolpath. Zero settings take the defaults.
type GCodeRequest struct {
	SolveRequest
	Settings *model.CutSettings `json:"settings,omitempty"`
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrInvalidParameters, err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) solve(r *http.Request, req SolveRequest) (SolveResponse, error) {
	res, cached, err := cache.Solve(r.Context(), s.cfg.Cache, req.problem(), s.cfg.MemoryBudget)
	return SolveResponse{Result: res, Cached: cached}, err
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	resp, err := s.solve(r, req)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []SolveRequest
	if err := decode(r, &reqs); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(reqs) > MaxBatch {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("batch of %d exceeds %d", len(reqs), MaxBatch))
		return
	}

	batchID := uuid.NewString()
	logger := log.FromContext(r.Context()).With("batch", batchID[:8])
	items := make([]BatchItem, len(reqs))
	for i, req := range reqs {
		if err := r.Context().Err(); err != nil {
			writeError(w, statusOf(err), err)
			return
		}
		resp, err := s.solve(r, req)
		if err != nil {
			logger.Warn("batch item failed", "index", i, "err", err)
			items[i].Error = err.Error()
			continue
		}
		items[i].Result = &resp
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	base := layout.Params(req.problem(), s.cfg.MemoryBudget)
	results, err := engine.CompareScenarios(r.Context(), engine.BuildDefaultScenarios(base))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	items := make([]CompareItem, len(results))
	for i, res := range results {
		items[i] = CompareItem{
			Name:      res.Scenario.Name,
			Depth:     res.Scenario.Params.Depth,
			Count:     res.Count,
			Optimal:   res.Optimal,
			Method:    string(res.Method),
			ElapsedMS: res.Elapsed.Milliseconds(),
		}
		if res.Err != nil {
			items[i].Error = res.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGCode(w http.ResponseWriter, r *http.Request) {
	var req GCodeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	settings := model.DefaultSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}

	resp, err := s.solve(r, req.SolveRequest)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	code := gcode.New(settings).Generate(resp.Result)
	if collisions := gcode.CheckCollisions(gcode.ParseGCode(code), resp.Result, settings); len(collisions) > 0 {
		for _, msg := range gcode.FormatCollisionWarnings(collisions) {
			w.Header().Add("X-Toolpath-Warning", msg)
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, code)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var dims [4]int
	for i, name := range []string{"L", "W", "l", "w"} {
		v, err := strconv.Atoi(chi.URLParam(r, name))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %s is not a number", engine.ErrInvalidParameters, name))
			return
		}
		dims[i] = v
	}
	size := export.DefaultPNGSize
	if q := r.URL.Query().Get("size"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v <= 0 || v > 4096 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: size must be in 1..4096", engine.ErrInvalidParameters))
			return
		}
		size = v
	}

	resp, err := s.solve(r, SolveRequest{Length: dims[0], Width: dims[1], BoxLength: dims[2], BoxWidth: dims[3]})
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	img, err := export.RenderImage(resp.Result, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Box-Count", strconv.Itoa(resp.Count))
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		log.FromContext(r.Context()).Error("encode png", "err", err)
	}
}
