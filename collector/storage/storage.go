package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Directory names under the store root.
const (
	allMatchesDir = "all_matches"
	byPlayerDir   = "by_player"
)

// MatchStore is the durable flat-file home of the match artifacts.
// One canonical artifact per match id under all_matches, plus lightweight
// reference files per (player, match) under by_player. References carry the
// relative artifact path instead of relying on filesystem links, so the
// layout survives copies between machines.
type MatchStore struct {
	root string
}

// Create the match store, making the directory layout if needed.
func CreateMatchStore(root string) (*MatchStore, error) {
	for _, dir := range []string{allMatchesDir, byPlayerDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("couldn't create the store directory %s: %w", dir, err)
		}
	}

	return &MatchStore{root: root}, nil
}

// Path of the canonical artifact for a match id.
func (s *MatchStore) ArtifactPath(matchId string) string {
	return filepath.Join(s.root, allMatchesDir, matchId+".json")
}

// Verify if the artifact already exists.
// This check, not any index, is the final authority on "already fetched".
func (s *MatchStore) Exists(matchId string) bool {
	_, err := os.Stat(s.ArtifactPath(matchId))
	return err == nil
}

// Save persists the artifact exactly once.
// The write goes through a temp file and a rename, so a interrupted run
// leaves the artifact either fully absent or fully written.
func (s *MatchStore) Save(matchId string, raw []byte) error {
	if s.Exists(matchId) {
		return nil
	}

	dir := filepath.Join(s.root, allMatchesDir)
	tmp, err := os.CreateTemp(dir, matchId+".*.tmp")
	if err != nil {
		return fmt.Errorf("couldn't create the temp artifact for %s: %w", matchId, err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("couldn't write the artifact for %s: %w", matchId, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("couldn't close the artifact for %s: %w", matchId, err)
	}

	if err := os.Rename(tmp.Name(), s.ArtifactPath(matchId)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("couldn't finish the artifact for %s: %w", matchId, err)
	}

	return nil
}

// Read a persisted artifact.
func (s *MatchStore) Read(matchId string) ([]byte, error) {
	return os.ReadFile(s.ArtifactPath(matchId))
}

// ListArtifacts returns the match ids of every persisted artifact.
// Used to seed the dedup registry on startup.
func (s *MatchStore) ListArtifacts() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, allMatchesDir))
	if err != nil {
		return nil, fmt.Errorf("couldn't list the artifacts: %w", err)
	}

	var matchIds []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		matchIds = append(matchIds, strings.TrimSuffix(name, ".json"))
	}

	return matchIds, nil
}

// PlayerDir creates and returns the per-player reference directory.
func (s *MatchStore) PlayerDir(rank int, name string) (string, error) {
	dir := filepath.Join(s.root, byPlayerDir, fmt.Sprintf("%d_%s", rank, sanitizeName(name)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("couldn't create the player directory for %s: %w", name, err)
	}
	return dir, nil
}

// Link establishes a reference from a player directory into the shared
// artifact. The reference is a small file carrying the relative artifact
// path; writing it again is a no-op.
func (s *MatchStore) Link(playerDir string, matchId string) error {
	refPath := filepath.Join(playerDir, matchId+".json.ref")
	if _, err := os.Stat(refPath); err == nil {
		return nil
	}

	target := filepath.Join("..", "..", allMatchesDir, matchId+".json")
	if err := os.WriteFile(refPath, []byte(target+"\n"), 0o644); err != nil {
		return fmt.Errorf("couldn't create the reference for %s: %w", matchId, err)
	}

	return nil
}

// Replace anything outside [a-zA-Z0-9] so display names are safe as directories.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
