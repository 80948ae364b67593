package assets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"Mower/internal/logger"
	"Mower/internal/scene"

	"go.uber.org/zap"
)

var (
	ErrNotFound    = errors.New("asset not found")
	ErrWebDisabled = errors.New("web assets are disabled")
	ErrSceneIndex  = errors.New("scene index out of range")
)

// Server resolves asset references to local files. Relative references
// live under Root; http(s) references are downloaded into CacheDir first.
type Server struct {
	Root     string
	CacheDir string
	Web      bool
	Refresh  bool // re-download cached web assets
	Client   *http.Client
}

// NewServer serves local assets from root with web assets disabled.
func NewServer(root string) *Server {
	return &Server{Root: root, Client: http.DefaultClient}
}

// Asset is a model file ready to be parsed.
type Asset struct {
	Ref    string // as requested
	Path   string // local file
	Scene  int
	Scenes int // number of scenes in the document
	Remote bool
}

// Resolve returns the local path for ref, downloading it when remote.
func (s *Server) Resolve(ctx context.Context, ref string) (string, error) {
	if scene.IsRemote(ref) {
		if !s.Web {
			return "", fmt.Errorf("%s: %w", ref, ErrWebDisabled)
		}
		return s.fetch(ctx, ref)
	}

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Root, filepath.FromSlash(ref))
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory: %w", path, ErrNotFound)
	}
	return path, nil
}

// Prepare resolves the model behind p and checks that the scene exists.
func (s *Server) Prepare(ctx context.Context, p scene.ScenePath) (*Asset, error) {
	path, err := s.Resolve(ctx, p.Asset)
	if err != nil {
		return nil, err
	}

	doc, err := Inspect(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Asset, err)
	}
	if p.Scene < 0 || p.Scene >= len(doc.Scenes) {
		return nil, fmt.Errorf("%s: scene %d of %d: %w", p.Asset, p.Scene, len(doc.Scenes), ErrSceneIndex)
	}

	logger.Log.Debug("Asset prepared",
		zap.String("ref", p.String()),
		zap.String("path", path),
		zap.Int("scenes", len(doc.Scenes)))

	return &Asset{
		Ref:    p.Asset,
		Path:   path,
		Scene:  p.Scene,
		Scenes: len(doc.Scenes),
		Remote: p.IsRemote(),
	}, nil
}

// IsBinary reports whether path is a binary glTF container.
func IsBinary(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".glb")
}
