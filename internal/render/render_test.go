package render

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/starford/meshbake/internal/apperr"
	"github.com/starford/meshbake/internal/models"
)

// arrayLines returns the value lines between the opening line starting with
// header and the closing bracket.
func arrayLines(t *testing.T, out, header string) []string {
	t.Helper()
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		if !strings.HasPrefix(l, header) {
			continue
		}
		var body []string
		for _, v := range lines[i+1:] {
			if v == "    ]" {
				return body
			}
			body = append(body, v)
		}
		t.Fatalf("array %q not closed", header)
	}
	t.Fatalf("array %q not found", header)
	return nil
}

// parseLine splits an emitted value line back into tokens.
func parseLine(t *testing.T, line string) []string {
	t.Helper()
	if !strings.HasPrefix(line, "        ") || strings.HasPrefix(line, "         ") {
		t.Fatalf("line %q not indented by 8 spaces", line)
	}
	if !strings.HasSuffix(line, ",") {
		t.Fatalf("line %q has no trailing comma", line)
	}
	return strings.Split(strings.TrimSuffix(strings.TrimSpace(line), ","), ", ")
}

func TestRender_Scenario(t *testing.T) {
	mesh := &models.MeshData{
		Vertices: []float64{1, 2, 3, 4, 5, 6},
		Indices:  []uint32{0, 1, 2},
	}
	out, err := Bytes(mesh, DefaultOptions())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `import Foundation

struct ClothReferenceData {
    static let vertices: [Float] = [
        1.000000, 2.000000, 3.000000, 4.000000, 5.000000, 6.000000,
    ]

    static let indices: [UInt32] = [
        0, 1, 2,
    ]
}
`
	if string(out) != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestRender_Chunking(t *testing.T) {
	for _, n := range []int{0, 1, 11, 12, 13, 24, 25, 100} {
		mesh := &models.MeshData{Vertices: make([]float64, n), Indices: make([]uint32, n)}
		out, err := Bytes(mesh, DefaultOptions())
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		for _, header := range []string{"    static let vertices", "    static let indices"} {
			lines := arrayLines(t, string(out), header)
			wantLines := (n + 11) / 12
			if len(lines) != wantLines {
				t.Errorf("n=%d %s: %d lines, want %d", n, header, len(lines), wantLines)
				continue
			}
			total := 0
			for i, l := range lines {
				vals := parseLine(t, l)
				if i < len(lines)-1 && len(vals) != 12 {
					t.Errorf("n=%d %s line %d: %d values, want 12", n, header, i, len(vals))
				}
				total += len(vals)
			}
			if total != n {
				t.Errorf("n=%d %s: %d values total", n, header, total)
			}
		}
	}
}

func TestRender_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	mesh := &models.MeshData{}
	for i := 0; i < 90; i++ {
		mesh.Vertices = append(mesh.Vertices, (rng.Float64()-0.5)*200)
		mesh.Indices = append(mesh.Indices, rng.Uint32())
	}
	out, err := Bytes(mesh, DefaultOptions())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var gotV []float64
	for _, l := range arrayLines(t, string(out), "    static let vertices") {
		for _, tok := range parseLine(t, l) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				t.Fatalf("parse %q: %v", tok, err)
			}
			gotV = append(gotV, v)
		}
	}
	for i, v := range mesh.Vertices {
		if math.Abs(gotV[i]-v) > 5e-7 {
			t.Errorf("vertices[%d] = %v, want %v within 5e-7", i, gotV[i], v)
		}
	}

	var gotI []uint32
	for _, l := range arrayLines(t, string(out), "    static let indices") {
		for _, tok := range parseLine(t, l) {
			v, err := strconv.ParseUint(tok, 10, 32)
			if err != nil {
				t.Fatalf("parse %q: %v", tok, err)
			}
			gotI = append(gotI, uint32(v))
		}
	}
	for i, v := range mesh.Indices {
		if gotI[i] != v {
			t.Errorf("indices[%d] = %d, want %d", i, gotI[i], v)
		}
	}
}

func TestRender_Idempotent(t *testing.T) {
	mesh := &models.MeshData{
		Vertices: []float64{0.1, 0.2, 0.3, -1e-9, 1e9, 42},
		Indices:  []uint32{0, 1, 0},
	}
	a, err := Bytes(mesh, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Bytes(mesh, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two renders of the same mesh differ")
	}
}

func TestRender_CustomOptions(t *testing.T) {
	opts := Options{TypeName: "Flag", PerLine: 2, Indent: 4, Precision: 2}
	out, err := Bytes(&models.MeshData{Vertices: []float64{1.005, 2, 3}, Indices: []uint32{9}}, opts)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if strings.Contains(s, "import") {
		t.Error("empty import should omit the header line")
	}
	if !strings.HasPrefix(s, "struct Flag {\n") {
		t.Errorf("unexpected header: %q", s)
	}
	if !strings.Contains(s, "\n    1.00, 2.00,\n    3.00,\n") {
		t.Errorf("unexpected vertex layout:\n%s", s)
	}
}

func TestRender_NonFinite(t *testing.T) {
	_, err := Bytes(&models.MeshData{Vertices: []float64{math.Inf(1)}}, DefaultOptions())
	if !errors.Is(err, apperr.ErrInvalidMesh) {
		t.Errorf("err = %v, want ErrInvalidMesh", err)
	}
}

func TestRender_InvalidPerLine(t *testing.T) {
	opts := DefaultOptions()
	opts.PerLine = 0
	if _, err := Bytes(&models.MeshData{}, opts); err == nil {
		t.Error("expected error for zero per-line count")
	}
}
