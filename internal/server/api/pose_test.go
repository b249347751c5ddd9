package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/swingsight/internal/pose"
)

func TestPoseHandler_MethodNotAllowed(t *testing.T) {
	h := NewPoseHandler(pose.NewMockDetector())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/pose/analyze", nil)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}

func TestPoseHandler_EmptyBody(t *testing.T) {
	h := NewPoseHandler(pose.NewMockDetector())

	req := httptest.NewRequest(http.MethodPost, "/api/pose/analyze", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestPoseHandler_InvalidImage(t *testing.T) {
	h := NewPoseHandler(pose.NewMockDetector())

	req := httptest.NewRequest(http.MethodPost, "/api/pose/analyze", bytes.NewBufferString("not an image"))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

// encodeTestFrame builds a JPEG-encoded blank frame for upload tests.
func encodeTestFrame(t *testing.T) []byte {
	t.Helper()

	mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer mat.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		t.Fatalf("failed to encode test frame: %v", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data
}

func TestPoseHandler_AnalyzesFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	detector := pose.NewMockDetector()
	detector.SetKeypoints(pose.ContactKeypoints())
	h := NewPoseHandler(detector)

	req := httptest.NewRequest(http.MethodPost, "/api/pose/analyze", bytes.NewBuffer(encodeTestFrame(t)))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response struct {
		OK        bool            `json:"ok"`
		Keypoints []pose.Keypoint `json:"keypoints"`
		Metrics   *struct {
			LaunchAngle float64 `json:"launchAngle"`
			Phase       string  `json:"phase"`
		} `json:"metrics"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !response.OK {
		t.Fatal("expected ok response")
	}
	if len(response.Keypoints) == 0 {
		t.Error("expected keypoints in response")
	}
	if response.Metrics == nil {
		t.Fatal("expected metrics in response")
	}
	if response.Metrics.Phase != "contact" {
		t.Errorf("expected contact phase, got %q", response.Metrics.Phase)
	}
}

func TestPoseHandler_NoPose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	detector := pose.NewMockDetector()
	detector.SetKeypoints(nil)
	h := NewPoseHandler(detector)

	req := httptest.NewRequest(http.MethodPost, "/api/pose/analyze", bytes.NewBuffer(encodeTestFrame(t)))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.OK {
		t.Error("expected ok=false when no keypoints are detected")
	}
	if response.Message == "" {
		t.Error("expected explanatory message")
	}
}
