package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidScenePath is wrapped by every ParseScenePath failure.
var ErrInvalidScenePath = errors.New("invalid scene path")

const sceneLabel = "Scene"

// ScenePath addresses one scene inside a model asset, written
// "<asset>#Scene<N>".
type ScenePath struct {
	Asset string
	Scene int
}

// ParseScenePath splits s at its last '#'. Without a label the scene index
// defaults to 0.
func ParseScenePath(s string) (ScenePath, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ScenePath{}, fmt.Errorf("%w: empty", ErrInvalidScenePath)
	}

	i := strings.LastIndexByte(s, '#')
	if i < 0 {
		return ScenePath{Asset: s}, nil
	}

	asset, label := s[:i], s[i+1:]
	if asset == "" {
		return ScenePath{}, fmt.Errorf("%w: %q has no asset", ErrInvalidScenePath, s)
	}
	if label == "" {
		return ScenePath{}, fmt.Errorf("%w: %q has an empty label", ErrInvalidScenePath, s)
	}
	if !strings.HasPrefix(label, sceneLabel) {
		return ScenePath{}, fmt.Errorf("%w: unsupported label %q", ErrInvalidScenePath, label)
	}

	digits := label[len(sceneLabel):]
	if digits == "" || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return ScenePath{}, fmt.Errorf("%w: bad scene index in %q", ErrInvalidScenePath, label)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return ScenePath{}, fmt.Errorf("%w: bad scene index in %q: %v", ErrInvalidScenePath, label, err)
	}

	return ScenePath{Asset: asset, Scene: n}, nil
}

// MustParseScenePath is ParseScenePath for literals; it panics on error.
func MustParseScenePath(s string) ScenePath {
	p, err := ParseScenePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p ScenePath) String() string {
	return p.Asset + "#" + sceneLabel + strconv.Itoa(p.Scene)
}

// IsRemote reports whether the asset is fetched over HTTP(S).
func (p ScenePath) IsRemote() bool {
	return IsRemote(p.Asset)
}

// IsRemote reports whether ref is an http:// or https:// URL.
func IsRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
