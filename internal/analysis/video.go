package analysis

import (
	"context"
	"errors"
	"image"
	"log"
	"runtime"
	"sort"
	"sync"

	"github.com/ayusman/swingsight/internal/capture"
	"github.com/ayusman/swingsight/internal/pose"
)

// VideoConfig holds configuration options for whole-video analysis.
type VideoConfig struct {
	// Workers is the size of the frame analysis worker pool.
	// Defaults to the number of CPUs.
	Workers int

	// SampleRate processes every Nth frame (1 = every frame).
	SampleRate int

	// MaxFrames caps the number of frames analyzed (0 = unlimited).
	MaxFrames int

	// MotionThreshold enables activity gating when positive: frames whose
	// changed-pixel percentage stays below it are skipped without running
	// the pose model.
	MotionThreshold float64
}

// DefaultMotionThreshold is the default changed-pixel percentage below which
// a frame is considered still (1% pixel change).
const DefaultMotionThreshold = 1.0

// DefaultVideoConfig returns a VideoConfig with sensible default values.
// Activity gating is enabled so the warm-up and dead-time frames of a swing
// clip never reach the pose model.
func DefaultVideoConfig() VideoConfig {
	return VideoConfig{
		Workers:         runtime.NumCPU(),
		SampleRate:      1,
		MotionThreshold: DefaultMotionThreshold,
	}
}

// FrameResult tags one frame's metrics with its source frame index.
// OK is false when the frame produced no usable metrics.
type FrameResult struct {
	Index   int           `json:"frameIndex"`
	Metrics *SwingMetrics `json:"metrics,omitempty"`
	OK      bool          `json:"ok"`
}

// ProgressFunc is invoked after each frame is read, with the number of
// frames consumed so far and the total reported by the container.
type ProgressFunc func(read, total int)

// VideoAnalyzer runs the per-frame pipeline over every frame of a video.
// Frames are independent, so analysis is dispatched to a bounded worker
// pool; results carry their frame index and are returned in frame order.
type VideoAnalyzer struct {
	detector pose.Detector
	pipeline *Pipeline
	config   VideoConfig

	// Progress, if set, is called as frames are consumed.
	Progress ProgressFunc
}

// NewVideoAnalyzer creates a VideoAnalyzer using the given pose detector.
func NewVideoAnalyzer(detector pose.Detector, config VideoConfig) *VideoAnalyzer {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.SampleRate <= 0 {
		config.SampleRate = 1
	}
	return &VideoAnalyzer{
		detector: detector,
		pipeline: NewPipeline(),
		config:   config,
	}
}

// Pipeline returns the per-frame pipeline, mainly so tests can swap the
// line detector.
func (va *VideoAnalyzer) Pipeline() *Pipeline {
	return va.pipeline
}

type frameJob struct {
	index     int
	keypoints []pose.Keypoint
	img       image.Image
}

// Analyze reads frames from source and analyzes each one, returning results
// ordered by frame index. It stops at the end of the video, when MaxFrames
// is reached, or when ctx is cancelled; cancellation aborts at frame
// granularity and returns the context error.
func (va *VideoAnalyzer) Analyze(ctx context.Context, source capture.VideoSource) ([]FrameResult, error) {
	if err := source.Open(); err != nil {
		return nil, err
	}
	defer source.Close()

	var gate *capture.ActivityGate
	if va.config.MotionThreshold > 0 {
		gate = capture.NewActivityGate(va.config.MotionThreshold)
		defer gate.Close()
	}

	jobs := make(chan frameJob, va.config.Workers)
	resultsCh := make(chan FrameResult, va.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < va.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				metrics, ok := va.pipeline.AnalyzeFrame(job.keypoints, job.img)
				resultsCh <- FrameResult{Index: job.index, Metrics: metrics, OK: ok}
			}
		}()
	}

	var results []FrameResult
	done := make(chan struct{})
	go func() {
		for r := range resultsCh {
			results = append(results, r)
		}
		close(done)
	}()

	total := source.FrameCount()
	readErr := va.readFrames(ctx, source, gate, jobs, total)

	close(jobs)
	wg.Wait()
	close(resultsCh)
	<-done

	if readErr != nil {
		return nil, readErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})
	return results, nil
}

// readFrames consumes the source sequentially and feeds analysis jobs to the
// worker pool. Detection errors on individual frames are logged and skipped
// so one bad frame cannot fail a whole video.
func (va *VideoAnalyzer) readFrames(ctx context.Context, source capture.VideoSource, gate *capture.ActivityGate, jobs chan<- frameJob, total int) error {
	frameIdx := 0
	analyzed := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if va.config.MaxFrames > 0 && analyzed >= va.config.MaxFrames {
			return nil
		}

		frame, err := source.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrEndOfVideo) {
				return nil
			}
			return err
		}

		idx := frameIdx
		frameIdx++
		if va.Progress != nil {
			va.Progress(frameIdx, total)
		}

		if idx%va.config.SampleRate != 0 {
			frame.Close()
			continue
		}

		if gate != nil {
			if active, _ := gate.Check(frame); !active {
				frame.Close()
				continue
			}
		}

		keypoints, err := va.detector.Detect(frame)
		if err != nil {
			log.Printf("frame %d: pose detection failed: %v", idx, err)
			frame.Close()
			continue
		}

		img, err := capture.ToImage(frame)
		frame.Close()
		if err != nil {
			img = nil
		}

		select {
		case jobs <- frameJob{index: idx, keypoints: keypoints, img: img}:
			analyzed++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Summary aggregates per-frame results for reporting and storage.
type Summary struct {
	FramesAnalyzed int            `json:"framesAnalyzed"`
	FramesUsable   int            `json:"framesUsable"`
	AvgLaunchAngle float64        `json:"avgLaunchAngle"`
	AvgConfidence  float64        `json:"avgConfidence"`
	PhaseCounts    map[string]int `json:"phaseCounts"`
}

// Summarize reduces frame results to a Summary. Frames without metrics
// contribute to FramesAnalyzed only, never to the averages.
func Summarize(results []FrameResult) Summary {
	s := Summary{
		FramesAnalyzed: len(results),
		PhaseCounts:    make(map[string]int),
	}

	for _, r := range results {
		if !r.OK || r.Metrics == nil {
			continue
		}
		s.FramesUsable++
		s.AvgLaunchAngle += r.Metrics.LaunchAngle
		s.AvgConfidence += r.Metrics.Confidence
		s.PhaseCounts[string(r.Metrics.Phase)]++
	}

	if s.FramesUsable > 0 {
		s.AvgLaunchAngle /= float64(s.FramesUsable)
		s.AvgConfidence /= float64(s.FramesUsable)
	}
	return s
}
