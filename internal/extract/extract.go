// Package extract pulls the flattened vertex and triangle-index arrays out of
// a text document such as an exported three.js HTML page.
//
// A block is a marker followed by optional whitespace, a colon, optional
// whitespace and an opening bracket. Its body runs up to the next closing
// bracket, newlines included:
//
//	vertices: [0.0, 1.5, -2.25,
//	           3.0, 4.0, 5.0]
package extract

import (
	"fmt"

	"github.com/starford/meshbake/internal/apperr"
	"github.com/starford/meshbake/internal/models"
)

// Default block markers.
const (
	DefaultVerticesMarker = "vertices"
	DefaultIndicesMarker  = "faceTriIds"
)

// Options controls which markers are searched for and how missing blocks
// are treated.
type Options struct {
	VerticesMarker string
	IndicesMarker  string
	// AllowMissing turns a missing block into an empty sequence instead of
	// an error. The block is still listed in Report.Missing.
	AllowMissing bool
}

// DefaultOptions returns the options matching the cloth demo page layout.
func DefaultOptions() Options {
	return Options{
		VerticesMarker: DefaultVerticesMarker,
		IndicesMarker:  DefaultIndicesMarker,
	}
}

// Report summarises an extraction.
type Report struct {
	Vertices   int      // len(vertices)/3
	Triangles  int      // len(indices)/3
	VerticesAt int      // byte offset of the vertices body, -1 if missing
	IndicesAt  int      // byte offset of the faceTriIds body, -1 if missing
	Missing    []string // markers that were not found (AllowMissing only)
}

// Extract locates both blocks in doc and parses them into a MeshData.
func Extract(doc []byte, opts Options) (*models.MeshData, Report, error) {
	report := Report{VerticesAt: -1, IndicesAt: -1}
	text := string(doc)
	mesh := &models.MeshData{
		Vertices: []float64{},
		Indices:  []uint32{},
	}

	vr := Find(text, opts.VerticesMarker)
	if vr.Found {
		vs, err := ParseFloats(opts.VerticesMarker, vr.Body)
		if err != nil {
			return nil, report, err
		}
		mesh.Vertices = vs
		report.VerticesAt = vr.Offset
	} else {
		if !opts.AllowMissing {
			return nil, report, fmt.Errorf("extract: marker %q: %w", opts.VerticesMarker, apperr.ErrVerticesNotFound)
		}
		report.Missing = append(report.Missing, opts.VerticesMarker)
	}

	ir := Find(text, opts.IndicesMarker)
	if ir.Found {
		is, err := ParseIndices(opts.IndicesMarker, ir.Body)
		if err != nil {
			return nil, report, err
		}
		mesh.Indices = is
		report.IndicesAt = ir.Offset
	} else {
		if !opts.AllowMissing {
			return nil, report, fmt.Errorf("extract: marker %q: %w", opts.IndicesMarker, apperr.ErrIndicesNotFound)
		}
		report.Missing = append(report.Missing, opts.IndicesMarker)
	}

	report.Vertices = mesh.VertexCount()
	report.Triangles = mesh.TriangleCount()
	return mesh, report, nil
}
