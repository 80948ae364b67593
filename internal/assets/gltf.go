package assets

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrFormat is returned for files that are neither glTF JSON nor GLB.
var ErrFormat = errors.New("not a glTF document")

const (
	glbMagic     = 0x46546C67 // "glTF"
	glbChunkJSON = 0x4E4F534A // "JSON"
)

// Document is the part of a glTF document the viewer needs before handing
// the file to the engine: the scene list and the external resources.
type Document struct {
	Scenes  []json.RawMessage `json:"scenes"`
	Buffers []struct {
		URI string `json:"uri"`
	} `json:"buffers"`
	Images []struct {
		URI string `json:"uri"`
	} `json:"images"`
}

// ExternalURIs lists buffer and image URIs that point at other files.
// Embedded data URIs are skipped.
func (d *Document) ExternalURIs() []string {
	var uris []string
	add := func(uri string) {
		if uri == "" || strings.HasPrefix(uri, "data:") {
			return
		}
		uris = append(uris, uri)
	}
	for _, b := range d.Buffers {
		add(b.URI)
	}
	for _, img := range d.Images {
		add(img.URI)
	}
	return uris
}

// Inspect reads the glTF JSON from path, unwrapping the GLB container
// when needed.
func Inspect(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// ParseDocument decodes glTF JSON or a GLB container.
func ParseDocument(data []byte) (*Document, error) {
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic {
		js, err := glbJSONChunk(data)
		if err != nil {
			return nil, err
		}
		data = js
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return &doc, nil
}

func glbJSONChunk(data []byte) ([]byte, error) {
	r := bytes.NewReader(data)
	var header struct {
		Magic   uint32
		Version uint32
		Length  uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: short GLB header", ErrFormat)
	}
	if header.Version != 2 {
		return nil, fmt.Errorf("%w: unsupported GLB version %d", ErrFormat, header.Version)
	}
	if int(header.Length) > len(data) {
		return nil, fmt.Errorf("%w: GLB length %d exceeds file size %d", ErrFormat, header.Length, len(data))
	}

	var chunk struct {
		Length uint32
		Type   uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
		return nil, fmt.Errorf("%w: missing GLB JSON chunk", ErrFormat)
	}
	if chunk.Type != glbChunkJSON {
		return nil, fmt.Errorf("%w: first GLB chunk is not JSON", ErrFormat)
	}
	js := make([]byte, chunk.Length)
	if _, err := io.ReadFull(r, js); err != nil {
		return nil, fmt.Errorf("%w: truncated GLB JSON chunk", ErrFormat)
	}
	return js, nil
}
