// Package api provides HTTP API handlers for the SwingSight analysis service.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ayusman/swingsight/internal/store"
)

// maxUploadBytes caps the accepted video upload size (256 MiB).
const maxUploadBytes = 256 << 20

// AnalysisStarter launches a background analysis for an uploaded video.
type AnalysisStarter interface {
	Start(videoPath, videoName string) (string, error)
	Cancel(id string)
}

// analysisResponse is the JSON shape of an analysis resource.
type analysisResponse struct {
	ID             string    `json:"id"`
	VideoName      string    `json:"videoName"`
	Status         string    `json:"status"`
	FrameCount     int       `json:"frameCount"`
	FramesUsable   int       `json:"framesUsable"`
	AvgLaunchAngle float64   `json:"avgLaunchAngle"`
	AvgConfidence  float64   `json:"avgConfidence"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toAnalysisResponse(a *store.Analysis) analysisResponse {
	return analysisResponse{
		ID:             a.ID,
		VideoName:      a.VideoName,
		Status:         string(a.Status),
		FrameCount:     a.FrameCount,
		FramesUsable:   a.FramesUsable,
		AvgLaunchAngle: a.AvgLaunchAngle,
		AvgConfidence:  a.AvgConfidence,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AnalysesHandler handles HTTP requests for analysis resources.
type AnalysesHandler struct {
	store  *store.Store
	runner AnalysisStarter
}

// NewAnalysesHandler creates a new AnalysesHandler.
// runner may be nil, in which case uploads are rejected.
func NewAnalysesHandler(s *store.Store, runner AnalysisStarter) *AnalysesHandler {
	return &AnalysesHandler{store: s, runner: runner}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *AnalysesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/analyses or /api/analyses/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/analyses")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/analyses
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/analyses/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/analyses.
func (h *AnalysesHandler) list(w http.ResponseWriter, r *http.Request) {
	analyses, err := h.store.Analyses().List()
	if err != nil {
		http.Error(w, "Failed to list analyses", http.StatusInternalServerError)
		return
	}

	response := make([]analysisResponse, 0, len(analyses))
	for _, a := range analyses {
		response = append(response, toAnalysisResponse(a))
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/analyses: a multipart video upload that starts a
// background analysis and returns the pending analysis record.
func (h *AnalysesHandler) create(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		http.Error(w, "Analysis is not available", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("video")
	if err != nil {
		http.Error(w, "Missing video upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "swingsight-*.mp4")
	if err != nil {
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	tmp.Close()

	name := filepath.Base(header.Filename)
	id, err := h.runner.Start(tmp.Name(), name)
	if err != nil {
		os.Remove(tmp.Name())
		http.Error(w, "Failed to start analysis", http.StatusInternalServerError)
		return
	}

	a, err := h.store.Analyses().GetByID(id)
	if err != nil {
		http.Error(w, "Failed to load analysis", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, toAnalysisResponse(a))
}

// get handles GET /api/analyses/{id}.
func (h *AnalysesHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	a, err := h.store.Analyses().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Analysis not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load analysis", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toAnalysisResponse(a))
}

// delete handles DELETE /api/analyses/{id}.
func (h *AnalysesHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if h.runner != nil {
		h.runner.Cancel(id)
	}

	if err := h.store.Analyses().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Analysis not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete analysis", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FramesHandler serves the per-frame metrics of an analysis.
type FramesHandler struct {
	store *store.Store
}

// NewFramesHandler creates a new FramesHandler with the given store.
func NewFramesHandler(s *store.Store) *FramesHandler {
	return &FramesHandler{store: s}
}

// frameResponse is the JSON shape of one frame's metrics.
type frameResponse struct {
	FrameIndex       int      `json:"frameIndex"`
	LaunchAngle      float64  `json:"launchAngle"`
	AttackAngle      *float64 `json:"attackAngle"`
	BatPathAngle     *float64 `json:"batPathAngle"`
	HipRotation      *float64 `json:"hipRotation"`
	ShoulderRotation *float64 `json:"shoulderRotation"`
	Confidence       float64  `json:"confidence"`
	Phase            string   `json:"phase"`
}

// ServeHTTP handles GET /api/analyses/{id}/frames.
func (h *FramesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	id := strings.TrimSuffix(path, "/frames")
	if id == "" || id == path {
		http.Error(w, "Analysis not found", http.StatusNotFound)
		return
	}

	if _, err := h.store.Analyses().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Analysis not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load analysis", http.StatusInternalServerError)
		return
	}

	frames, err := h.store.Analyses().FrameMetrics(id)
	if err != nil {
		http.Error(w, "Failed to load frame metrics", http.StatusInternalServerError)
		return
	}

	response := make([]frameResponse, 0, len(frames))
	for _, f := range frames {
		response = append(response, frameResponse{
			FrameIndex:       f.FrameIndex,
			LaunchAngle:      f.LaunchAngle,
			AttackAngle:      f.AttackAngle,
			BatPathAngle:     f.BatPathAngle,
			HipRotation:      f.HipRotation,
			ShoulderRotation: f.ShoulderRotation,
			Confidence:       f.Confidence,
			Phase:            f.Phase,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
