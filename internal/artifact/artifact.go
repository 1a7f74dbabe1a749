// Package artifact reads and writes the intermediate MeshData file.
//
// The encoding is the single-line JSON layout produced by the earlier
// tooling: {"vertices": [1.0, 2.5], "indices": [0, 1, 2]}. Floats always
// carry a decimal point or an exponent so they stay distinguishable from the
// integer indices when read by other tools.
package artifact

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/starford/meshbake/internal/apperr"
	"github.com/starford/meshbake/internal/models"
)

// Encode writes mesh to w. Keys are emitted in the order vertices, indices.
func Encode(w io.Writer, mesh *models.MeshData) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(`{"vertices": [`)
	for i, v := range mesh.Vertices {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("artifact: vertices[%d]: %w: value is not finite", i, apperr.ErrInvalidMesh)
		}
		if i > 0 {
			bw.WriteString(", ")
		}
		bw.WriteString(FormatFloat(v))
	}
	bw.WriteString(`], "indices": [`)
	var buf []byte
	for i, idx := range mesh.Indices {
		if i > 0 {
			bw.WriteString(", ")
		}
		buf = strconv.AppendUint(buf[:0], uint64(idx), 10)
		bw.Write(buf)
	}
	bw.WriteString(`]}`)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("artifact: write: %w", err)
	}
	return nil
}

// Marshal returns the encoded form of mesh.
func Marshal(mesh *models.MeshData) ([]byte, error) {
	var sb strings.Builder
	if err := Encode(&sb, mesh); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// FormatFloat renders v in shortest round-trip form. Integral values get a
// ".0" suffix; values whose decimal exponent falls outside [-4, 16) use
// exponent notation.
func FormatFloat(v float64) string {
	e := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e
	}
	f := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(f, '.') {
		f += ".0"
	}
	return f
}

// document mirrors MeshData with pointer fields so an absent or null key can
// be told apart from an empty array.
type document struct {
	Vertices *[]float64 `json:"vertices"`
	Indices  *[]uint32  `json:"indices"`
}

// Decode reads a MeshData from r. Both keys must be present and hold arrays;
// unknown keys, negative or fractional indices are rejected.
func Decode(r io.Reader) (*models.MeshData, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("artifact: %w: empty input", apperr.ErrInvalidArtifact)
		}
		return nil, fmt.Errorf("artifact: %w: %v", apperr.ErrInvalidArtifact, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("artifact: %w: trailing data after object", apperr.ErrInvalidArtifact)
	}
	if doc.Vertices == nil {
		return nil, fmt.Errorf("artifact: %w: key %q is missing or null", apperr.ErrInvalidArtifact, "vertices")
	}
	if doc.Indices == nil {
		return nil, fmt.Errorf("artifact: %w: key %q is missing or null", apperr.ErrInvalidArtifact, "indices")
	}
	return &models.MeshData{Vertices: *doc.Vertices, Indices: *doc.Indices}, nil
}

// Unmarshal decodes data into a MeshData.
func Unmarshal(data []byte) (*models.MeshData, error) {
	return Decode(strings.NewReader(string(data)))
}
