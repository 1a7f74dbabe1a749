package models

import (
	"math"
	"strings"
	"testing"
)

func TestCounts_Truncate(t *testing.T) {
	m := &MeshData{Vertices: make([]float64, 8), Indices: make([]uint32, 5)}
	if m.VertexCount() != 2 {
		t.Errorf("VertexCount = %d, want 2", m.VertexCount())
	}
	if m.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", m.TriangleCount())
	}
}

func TestCheck_Clean(t *testing.T) {
	m := &MeshData{
		Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
	}
	if issues := m.Check(); len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
}

func TestCheck_Problems(t *testing.T) {
	m := &MeshData{
		Vertices: []float64{0, 0, 0, math.NaN()},
		Indices:  []uint32{0, 1, 2, 0},
	}
	issues := m.Check()
	var got []string
	for _, is := range issues {
		got = append(got, is.String())
	}
	joined := strings.Join(got, "\n")
	for _, want := range []string{
		"vertices: length 4 is not a multiple of 3",
		"indices: length 4 is not a multiple of 3",
		"vertices[3]: value is not finite",
		"indices[1]: vertex 1 out of range (have 1 vertices)",
		"indices[2]: vertex 2 out of range (have 1 vertices)",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing issue %q in:\n%s", want, joined)
		}
	}
}

func TestCheck_Capped(t *testing.T) {
	m := &MeshData{Indices: make([]uint32, 300)}
	for i := range m.Indices {
		m.Indices[i] = 1
	}
	if n := len(m.Check()); n != maxIssues {
		t.Errorf("len(issues) = %d, want %d", n, maxIssues)
	}
}
