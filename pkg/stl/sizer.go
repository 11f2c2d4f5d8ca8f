package stl

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
)

// Sizer resolves the size of model urls that point at local STL files.
// Results, including failures, are cached per url.
type Sizer struct {
	// Scale converts mesh units to meters
	Scale  float64
	Logger *slog.Logger

	mu    sync.Mutex
	sizes map[string]float64
}

// NewSizer creates a sizer for meshes in millimeters
func NewSizer(logger *slog.Logger) *Sizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sizer{Scale: 0.001, Logger: logger, sizes: make(map[string]float64)}
}

// Size returns the largest extent of the mesh behind modelURL in meters,
// 0 when the url is not a readable STL file
func (s *Sizer) Size(modelURL string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if size, ok := s.sizes[modelURL]; ok {
		return size
	}
	size := s.load(modelURL)
	s.sizes[modelURL] = size
	return size
}

func (s *Sizer) load(modelURL string) float64 {
	path, ok := LocalPath(modelURL)
	if !ok {
		return 0
	}
	model, err := Parse(path)
	if err != nil {
		s.Logger.Warn("cannot size model", "url", modelURL, "error", err)
		return 0
	}
	return model.Extent() * s.Scale
}

// Forget drops the cached size of modelURL
func (s *Sizer) Forget(modelURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sizes, modelURL)
}

// LocalPath returns the file system path of an STL url. Plain paths,
// paths starting with ~ and file:// urls are accepted.
func LocalPath(modelURL string) (string, bool) {
	if !strings.HasSuffix(strings.ToLower(modelURL), ".stl") {
		return "", false
	}
	if u, err := url.Parse(modelURL); err == nil && u.Scheme != "" {
		if u.Scheme != "file" {
			return "", false
		}
		return u.Path, true
	}
	path, err := homedir.Expand(modelURL)
	if err != nil {
		return "", false
	}
	return path, true
}
