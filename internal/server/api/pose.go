package api

import (
	"io"
	"net/http"

	"gocv.io/x/gocv"

	"github.com/ayusman/swingsight/internal/analysis"
	"github.com/ayusman/swingsight/internal/capture"
	"github.com/ayusman/swingsight/internal/pose"
)

// maxImageBytes caps the accepted image upload size (16 MiB).
const maxImageBytes = 16 << 20

// PoseHandler analyzes a single uploaded frame: pose detection followed by
// the swing metrics pipeline.
type PoseHandler struct {
	detector pose.Detector
	pipeline *analysis.Pipeline
}

// NewPoseHandler creates a new PoseHandler with the given detector.
func NewPoseHandler(d pose.Detector) *PoseHandler {
	return &PoseHandler{
		detector: d,
		pipeline: analysis.NewPipeline(),
	}
}

// poseResponse is the JSON shape of a single-frame analysis result.
type poseResponse struct {
	OK        bool                   `json:"ok"`
	Keypoints []pose.Keypoint        `json:"keypoints,omitempty"`
	Metrics   *analysis.SwingMetrics `json:"metrics,omitempty"`
	Message   string                 `json:"message,omitempty"`
}

// ServeHTTP handles POST /api/pose/analyze with a raw encoded image body.
func (h *PoseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImageBytes))
	if err != nil || len(body) == 0 {
		http.Error(w, "Missing image body", http.StatusBadRequest)
		return
	}

	mat, err := gocv.IMDecode(body, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		http.Error(w, "Could not decode image", http.StatusBadRequest)
		return
	}
	defer mat.Close()

	keypoints, err := h.detector.Detect(&mat)
	if err != nil {
		http.Error(w, "Pose detection failed", http.StatusInternalServerError)
		return
	}

	img, err := capture.ToImage(&mat)
	if err != nil {
		img = nil
	}

	metrics, ok := h.pipeline.AnalyzeFrame(keypoints, img)
	if !ok {
		writeJSON(w, http.StatusOK, poseResponse{OK: false, Message: "No pose detected"})
		return
	}

	writeJSON(w, http.StatusOK, poseResponse{
		OK:        true,
		Keypoints: keypoints,
		Metrics:   metrics,
	})
}
