package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Settings().Get("motion_threshold")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unset key, got %v", err)
	}
}

func TestSettingsRepository_SetAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if err := repo.Set("motion_threshold", "2.5"); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}

	got, err := repo.Get("motion_threshold")
	if err != nil {
		t.Fatalf("failed to get value: %v", err)
	}
	if got != "2.5" {
		t.Errorf("expected %q, got %q", "2.5", got)
	}
}

func TestSettingsRepository_SetOverwrites(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if err := repo.Set("motion_threshold", "1.0"); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}
	if err := repo.Set("motion_threshold", "3.0"); err != nil {
		t.Fatalf("failed to overwrite value: %v", err)
	}

	got, err := repo.Get("motion_threshold")
	if err != nil {
		t.Fatalf("failed to get value: %v", err)
	}
	if got != "3.0" {
		t.Errorf("expected %q after overwrite, got %q", "3.0", got)
	}
}
