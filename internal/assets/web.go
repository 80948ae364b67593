package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"Mower/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxParallelDownloads bounds concurrent requests for one model's resources.
const maxParallelDownloads = 4

// cacheDirFor returns the cache directory for one remote asset. Every
// resource of a glTF lands next to it so relative URIs keep working.
func (s *Server) cacheDirFor(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(s.CacheDir, hex.EncodeToString(sum[:8]))
}

func (s *Server) fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("asset url %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("asset url %q has no file name", rawURL)
	}

	dir := s.cacheDirFor(rawURL)
	local := filepath.Join(dir, name)
	if err := s.download(ctx, u, local); err != nil {
		return "", err
	}

	if IsBinary(local) || !strings.EqualFold(filepath.Ext(local), ".gltf") {
		return local, nil
	}

	doc, err := Inspect(local)
	if err != nil {
		return "", fmt.Errorf("%s: %w", rawURL, err)
	}

	type resource struct {
		ref *url.URL
		dst string
	}
	var resources []resource
	for _, uri := range doc.ExternalURIs() {
		rel, err := localRelPath(uri)
		if err != nil {
			return "", fmt.Errorf("%s: %w", rawURL, err)
		}
		ref, err := u.Parse(uri)
		if err != nil {
			return "", fmt.Errorf("%s: resource %q: %w", rawURL, uri, err)
		}
		resources = append(resources, resource{ref: ref, dst: filepath.Join(dir, rel)})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDownloads)
	for _, r := range resources {
		r := r
		g.Go(func() error {
			return s.download(gctx, r.ref, r.dst)
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return local, nil
}

// localRelPath maps a relative glTF URI to a path inside the cache
// directory. URIs escaping it are rejected.
func localRelPath(uri string) (string, error) {
	if u, err := url.Parse(uri); err == nil && u.IsAbs() {
		return "", fmt.Errorf("absolute resource uri %q is not supported", uri)
	}
	unescaped, err := url.PathUnescape(uri)
	if err != nil {
		return "", fmt.Errorf("resource uri %q: %w", uri, err)
	}
	clean := path.Clean("/" + unescaped)[1:]
	if clean == "" || clean != strings.TrimPrefix(path.Clean(unescaped), "./") {
		return "", fmt.Errorf("resource uri %q escapes the asset directory", uri)
	}
	return filepath.FromSlash(clean), nil
}

func (s *Server) download(ctx context.Context, u *url.URL, dst string) error {
	if !s.Refresh {
		if info, err := os.Stat(dst); err == nil && !info.IsDir() {
			logger.Log.Debug("Web asset cache hit", zap.String("url", u.String()), zap.String("path", dst))
			return nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("download %s: unexpected status %s", u, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".download-*")
	if err != nil {
		return err
	}
	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("download %s: %w", u, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	logger.Log.Info("Web asset downloaded",
		zap.String("url", u.String()),
		zap.String("path", dst),
		zap.Int64("bytes", n))
	return nil
}
