package pose

import "testing"

func TestIndex_LastWriteWins(t *testing.T) {
	keypoints := []Keypoint{
		{Name: LeftWrist, X: 1, Y: 1, Score: 0.5},
		{Name: LeftWrist, X: 9, Y: 9, Score: 0.8},
	}

	m := Index(keypoints)
	if len(m) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(m))
	}

	kp, ok := m.Get(LeftWrist)
	if !ok {
		t.Fatal("expected left wrist to be present")
	}
	if kp.X != 9 || kp.Score != 0.8 {
		t.Errorf("expected last occurrence to win, got %+v", kp)
	}
}

func TestIndex_Empty(t *testing.T) {
	m := Index(nil)
	if len(m) != 0 {
		t.Errorf("expected empty map, got %d entries", len(m))
	}
}

func TestHasConfidence(t *testing.T) {
	m := Index([]Keypoint{
		{Name: LeftShoulder, Score: 0.9},
		{Name: RightShoulder, Score: 0.41},
		{Name: LeftWrist, Score: 0.4},
	})

	t.Run("all joints above threshold", func(t *testing.T) {
		names := []JointName{LeftShoulder, RightShoulder}
		if !m.HasConfidence(names, DefaultConfidenceThreshold) {
			t.Error("expected confidence check to pass")
		}
	})

	t.Run("score equal to threshold fails", func(t *testing.T) {
		names := []JointName{LeftWrist}
		if m.HasConfidence(names, DefaultConfidenceThreshold) {
			t.Error("expected strict threshold comparison to fail at 0.4")
		}
	})

	t.Run("missing joint fails", func(t *testing.T) {
		names := []JointName{LeftShoulder, RightElbow}
		if m.HasConfidence(names, DefaultConfidenceThreshold) {
			t.Error("expected check to fail for a missing joint")
		}
	})
}
