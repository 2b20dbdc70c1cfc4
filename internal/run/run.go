// Package run records what a pipeline run read and wrote. Each run gets a
// directory below <output_dir>/runs holding its run.json manifest.
package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/KaramelBytes/citybike-cli/internal/utils"
	"github.com/google/uuid"
)

const (
	manifestFileName = "run.json"
	runsDirName      = "runs"
)

// Status values of a manifest.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Manifest describes one pipeline run persisted on disk.
type Manifest struct {
	ID         string            `json:"id"`
	Command    string            `json:"command"`
	Status     string            `json:"status"`
	Error      string            `json:"error,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at,omitempty"`
	Inputs     map[string]string `json:"inputs"`
	Artifacts  []string          `json:"artifacts"`
	Warnings   []string          `json:"warnings"`
	Counts     map[string]int    `json:"counts,omitempty"`

	// Not serialized: on-disk location of the run.json
	rootDir string `json:"-"`
}

// New constructs an in-memory manifest below outputDir. Call Save() to persist.
func New(outputDir, command string) *Manifest {
	id := uuid.NewString()
	now := time.Now()
	return &Manifest{
		ID:        id,
		Command:   command,
		Status:    StatusRunning,
		StartedAt: now,
		Inputs:    map[string]string{},
		Artifacts: []string{},
		Warnings:  []string{},
		Counts:    map[string]int{},
		rootDir:   filepath.Join(outputDir, runsDirName, now.Format("20060102-150405")+"-"+id[:8]),
	}
}

// Load reads a run.json from the provided directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read run: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse run: %w", err)
	}
	m.rootDir = dir
	return &m, nil
}

// RootDir returns the on-disk run directory path.
func (m *Manifest) RootDir() string { return m.rootDir }

// AddInput records an input table path under its name.
func (m *Manifest) AddInput(name, path string) { m.Inputs[name] = path }

// AddArtifact records a file written by the run.
func (m *Manifest) AddArtifact(path string) { m.Artifacts = append(m.Artifacts, path) }

// AddWarning records a non-fatal problem.
func (m *Manifest) AddWarning(msg string) { m.Warnings = append(m.Warnings, msg) }

// Finish stamps the end time and final status.
func (m *Manifest) Finish(err error) {
	m.FinishedAt = time.Now()
	if err != nil {
		m.Status = StatusFailed
		m.Error = err.Error()
		return
	}
	m.Status = StatusSucceeded
}

// Save writes run.json using atomic write.
func (m *Manifest) Save() error {
	if m.rootDir == "" {
		return errors.New("run directory not set")
	}
	if err := utils.EnsureDir(m.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(m.rootDir, manifestFileName), data)
}

// List loads every manifest below outputDir, newest first. A missing runs
// directory yields an empty list; unreadable manifests are skipped.
func List(outputDir string) ([]*Manifest, error) {
	root := filepath.Join(outputDir, runsDirName)
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list runs: %w", err)
	}
	var out []*Manifest
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m, err := Load(filepath.Join(root, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}
