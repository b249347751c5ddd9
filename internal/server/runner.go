package server

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/swingsight/internal/analysis"
	"github.com/ayusman/swingsight/internal/capture"
	"github.com/ayusman/swingsight/internal/pose"
	"github.com/ayusman/swingsight/internal/store"
)

// Runner executes video analyses asynchronously, persisting results and
// broadcasting progress. Each analysis gets its own cancellable context so
// a caller abandoning a video aborts the work at frame granularity.
type Runner struct {
	store    *store.Store
	detector pose.Detector
	hub      *ProgressHub
	video    analysis.VideoConfig

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewRunner creates a Runner using the given store, detector, and hub.
// video configures every analysis this runner launches (worker pool size,
// frame sampling, activity gating).
func NewRunner(st *store.Store, detector pose.Detector, hub *ProgressHub, video analysis.VideoConfig) *Runner {
	return &Runner{
		store:    st,
		detector: detector,
		hub:      hub,
		video:    video,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Start creates an analysis record for the video at path and launches the
// analysis in the background. The video file is removed when the analysis
// finishes. Returns the new analysis ID.
func (r *Runner) Start(videoPath, videoName string) (string, error) {
	id := uuid.New().String()

	a := &store.Analysis{
		ID:        id,
		VideoName: videoName,
		Status:    store.StatusPending,
	}
	if err := r.store.Analyses().Create(a); err != nil {
		return "", err
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancels[id] = cancel
	r.mu.Unlock()

	go r.run(ctx, id, videoPath)

	return id, nil
}

// Cancel aborts a running analysis. It is a no-op for unknown IDs.
func (r *Runner) Cancel(id string) {
	r.mu.Lock()
	cancel, ok := r.cancels[id]
	r.mu.Unlock()
	if ok {
		cancel()
	}
}

func (r *Runner) run(ctx context.Context, id, videoPath string) {
	defer os.Remove(videoPath)
	defer func() {
		r.mu.Lock()
		delete(r.cancels, id)
		r.mu.Unlock()
	}()

	repo := r.store.Analyses()

	if err := repo.UpdateStatus(id, store.StatusRunning); err != nil {
		log.Printf("analysis %s: update status: %v", id, err)
	}

	analyzer := analysis.NewVideoAnalyzer(r.detector, r.video)
	analyzer.Progress = func(read, total int) {
		r.hub.Broadcast(ProgressEvent{
			AnalysisID:  id,
			Status:      string(store.StatusRunning),
			FramesRead:  read,
			FramesTotal: total,
		})
	}

	results, err := analyzer.Analyze(ctx, capture.NewVideoFile(videoPath))
	if err != nil {
		log.Printf("analysis %s failed: %v", id, err)
		if err := repo.UpdateStatus(id, store.StatusFailed); err != nil {
			log.Printf("analysis %s: update status: %v", id, err)
		}
		r.hub.Broadcast(ProgressEvent{AnalysisID: id, Status: string(store.StatusFailed)})
		return
	}

	frames := make([]store.FrameMetrics, 0, len(results))
	for _, res := range results {
		if !res.OK || res.Metrics == nil {
			continue
		}
		frames = append(frames, store.FrameMetrics{
			AnalysisID:       id,
			FrameIndex:       res.Index,
			LaunchAngle:      res.Metrics.LaunchAngle,
			AttackAngle:      res.Metrics.AttackAngle,
			BatPathAngle:     res.Metrics.BatPathAngle,
			HipRotation:      res.Metrics.HipRotation,
			ShoulderRotation: res.Metrics.ShoulderRotation,
			Confidence:       res.Metrics.Confidence,
			Phase:            string(res.Metrics.Phase),
		})
	}

	if err := repo.AddFrameMetrics(id, frames); err != nil {
		log.Printf("analysis %s: save frame metrics: %v", id, err)
	}

	summary := analysis.Summarize(results)
	if err := repo.SaveSummary(id, summary.FramesAnalyzed, summary.FramesUsable, summary.AvgLaunchAngle, summary.AvgConfidence); err != nil {
		log.Printf("analysis %s: save summary: %v", id, err)
	}

	r.hub.Broadcast(ProgressEvent{
		AnalysisID:  id,
		Status:      string(store.StatusComplete),
		FramesRead:  summary.FramesAnalyzed,
		FramesTotal: summary.FramesAnalyzed,
	})
}
