package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ayusman/swingsight/internal/analysis"
	"github.com/ayusman/swingsight/internal/pose"
	"github.com/ayusman/swingsight/internal/server"
	"github.com/ayusman/swingsight/internal/store"
)

func main() {
	fmt.Println("SwingSight - Baseball Swing Analysis")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".swingsight")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "swingsight.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Try the pose model subprocess, fall back to the mock detector
	var detector pose.Detector
	if svc, err := pose.NewServiceDetector(pose.DefaultConfig()); err == nil {
		detector = svc
		log.Println("Using MediaPipe pose detection")
	} else {
		log.Printf("Pose service not available (%v), using mock detector", err)
		detector = pose.NewMockDetector()
	}
	defer detector.Close()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start server
	cfg := server.Config{
		StaticDir: webDir,
		Store:     st,
		Detector:  detector,
		Video:     videoConfig(st),
	}

	srv := server.New(cfg)

	addr := ":8080"
	fmt.Printf("Starting server on %s\n", addr)
	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// videoConfig builds the video analysis configuration, letting a stored
// motion_threshold setting override the default activity gate.
func videoConfig(st *store.Store) analysis.VideoConfig {
	cfg := analysis.DefaultVideoConfig()

	value, err := st.Settings().Get("motion_threshold")
	if err != nil {
		return cfg
	}

	threshold, err := strconv.ParseFloat(value, 64)
	if err != nil || threshold < 0 {
		log.Printf("Ignoring invalid motion_threshold setting %q", value)
		return cfg
	}

	cfg.MotionThreshold = threshold
	return cfg
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.swingsight/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".swingsight", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
