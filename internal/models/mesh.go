// Package models defines the domain types for meshbake.
package models

import (
	"fmt"
	"math"
)

// MeshData is the intermediate artifact passed from the extractor to the
// renderer. Both sequences are flattened triples.
type MeshData struct {
	Vertices []float64 `json:"vertices"`
	Indices  []uint32  `json:"indices"`
}

// VertexCount returns len(Vertices)/3, truncated.
func (m *MeshData) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns len(Indices)/3, truncated.
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// Issue describes one problem found by Check.
type Issue struct {
	Field    string `json:"field"`
	Position int    `json:"position"` // -1 when the issue concerns the whole field
	Message  string `json:"message"`
}

func (i Issue) String() string {
	if i.Position < 0 {
		return fmt.Sprintf("%s: %s", i.Field, i.Message)
	}
	return fmt.Sprintf("%s[%d]: %s", i.Field, i.Position, i.Message)
}

// maxIssues caps the number of per-element issues reported by Check.
const maxIssues = 20

// Check reports structural problems: sequence lengths that are not multiples
// of 3, non-finite coordinates, and indices outside the vertex range.
// It never modifies the mesh.
func (m *MeshData) Check() []Issue {
	var out []Issue
	if len(m.Vertices)%3 != 0 {
		out = append(out, Issue{
			Field:    "vertices",
			Position: -1,
			Message:  fmt.Sprintf("length %d is not a multiple of 3", len(m.Vertices)),
		})
	}
	if len(m.Indices)%3 != 0 {
		out = append(out, Issue{
			Field:    "indices",
			Position: -1,
			Message:  fmt.Sprintf("length %d is not a multiple of 3", len(m.Indices)),
		})
	}

	n := 0
	for i, v := range m.Vertices {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out = append(out, Issue{Field: "vertices", Position: i, Message: "value is not finite"})
			if n++; n >= maxIssues {
				return out
			}
		}
	}

	vc := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= vc {
			out = append(out, Issue{
				Field:    "indices",
				Position: i,
				Message:  fmt.Sprintf("vertex %d out of range (have %d vertices)", idx, vc),
			})
			if n++; n >= maxIssues {
				return out
			}
		}
	}
	return out
}
