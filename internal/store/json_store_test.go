package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mj1618/weel/internal/model"
)

func TestNewJSONStore_CreatesDefaultProfile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := NewJSONStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("profile file not written: %v", err)
	}

	ctx := context.Background()
	profiles, err := s.ListProfiles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 1 {
		t.Fatalf("got %d profiles, want 1", len(profiles))
	}
	p := profiles[0]
	if p.Name != "Default" || p.GridSize.Rows != 3 || p.GridSize.Cols != 5 || len(p.Buttons) != 15 {
		t.Errorf("unexpected default profile: %+v", p)
	}
	id, err := s.CurrentProfileID(ctx)
	if err != nil || id != p.ID {
		t.Errorf("CurrentProfileID() = %q, %v; want %q", id, err, p.ID)
	}
}

func TestJSONStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewJSONStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	p := model.NewProfile("Streaming", 2, 4)
	p.Buttons[0] = model.NewButton("Site", model.NewAction(model.KindWebsite, "https://example.com"))
	if err := s.CreateProfile(ctx, &p); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCurrentProfileID(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewJSONStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reopened.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Streaming" || got.Buttons[0] == nil || got.Buttons[0].Label != "Site" {
		t.Errorf("profile not round-tripped: %+v", got)
	}
	if got.Buttons[0].Action.Kind() != model.KindWebsite {
		t.Errorf("action kind = %s", got.Buttons[0].Action.Kind())
	}
	id, _ := reopened.CurrentProfileID(ctx)
	if id != p.ID {
		t.Errorf("current profile = %q, want %q", id, p.ID)
	}
}

func TestJSONStore_Errors(t *testing.T) {
	s, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := s.GetProfile(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProfile: %v", err)
	}
	missing := model.NewProfile("x", 1, 1)
	if err := s.UpdateProfile(ctx, &missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateProfile: %v", err)
	}
	if err := s.SetCurrentProfileID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetCurrentProfileID: %v", err)
	}

	profiles, _ := s.ListProfiles(ctx)
	dup := profiles[0]
	if err := s.CreateProfile(ctx, &dup); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("CreateProfile duplicate: %v", err)
	}
	if err := s.DeleteProfile(ctx, dup.ID); !errors.Is(err, ErrLastProfile) {
		t.Errorf("DeleteProfile last: %v", err)
	}
}

func TestJSONStore_DeleteCurrentFallsBack(t *testing.T) {
	s, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	first, _ := s.CurrentProfileID(ctx)

	p := model.NewProfile("Second", 3, 5)
	if err := s.CreateProfile(ctx, &p); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCurrentProfileID(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteProfile(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if id, _ := s.CurrentProfileID(ctx); id != first {
		t.Errorf("current = %q, want %q", id, first)
	}
}

func TestJSONStore_UpdateDoesNotAliasCaller(t *testing.T) {
	s, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	profiles, _ := s.ListProfiles(ctx)
	p := profiles[0]
	p.Name = "Renamed"
	if err := s.UpdateProfile(ctx, &p); err != nil {
		t.Fatal(err)
	}
	p.Buttons[0] = model.NewButton("late", nil)

	got, _ := s.GetProfile(ctx, p.ID)
	if got.Name != "Renamed" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Buttons[0] != nil {
		t.Error("store shares the caller's button slice")
	}
}

func TestJSONStore_NormalizesLegacyFile(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"profiles":[{"id":"p1","name":"Old","buttons":[]}],"currentProfileId":"p1"}`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewJSONStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	p, err := s.GetProfile(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if p.GridSize.Cells() != 15 || len(p.Buttons) != 15 {
		t.Errorf("grid not normalized: %+v, %d buttons", p.GridSize, len(p.Buttons))
	}
	if p.Page() != 1 || p.PageCount() != 1 || p.Pages[1] == nil {
		t.Errorf("pages not normalized: current=%d total=%d", p.CurrentPage, p.TotalPages)
	}
}

func TestNewJSONStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewJSONStore(dir); err == nil {
		t.Error("expected parse error")
	}
}
