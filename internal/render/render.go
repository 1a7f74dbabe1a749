// Package render emits a MeshData as a Swift source file declaring two
// static array literals.
package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/starford/meshbake/internal/apperr"
	"github.com/starford/meshbake/internal/models"
)

// Options controls the layout of the generated file.
type Options struct {
	TypeName  string // name of the enclosing struct
	Import    string // module imported on the header line; empty omits it
	PerLine   int    // values per line
	Indent    int    // spaces before each value line
	Precision int    // digits after the decimal point for vertices
}

// DefaultOptions returns the layout used for ClothReferenceData.swift.
func DefaultOptions() Options {
	return Options{
		TypeName:  "ClothReferenceData",
		Import:    "Foundation",
		PerLine:   12,
		Indent:    8,
		Precision: 6,
	}
}

// Render writes the Swift declaration for mesh to w. The output depends only
// on mesh and opts.
func Render(w io.Writer, mesh *models.MeshData, opts Options) error {
	if opts.PerLine < 1 {
		return fmt.Errorf("render: per-line count must be positive, got %d", opts.PerLine)
	}
	for i, v := range mesh.Vertices {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("render: vertices[%d]: %w: value is not finite", i, apperr.ErrInvalidMesh)
		}
	}

	bw := bufio.NewWriter(w)
	if opts.Import != "" {
		fmt.Fprintf(bw, "import %s\n\n", opts.Import)
	}
	fmt.Fprintf(bw, "struct %s {\n", opts.TypeName)

	indent := strings.Repeat(" ", opts.Indent)

	bw.WriteString("    static let vertices: [Float] = [\n")
	writeChunks(bw, len(mesh.Vertices), opts.PerLine, indent, func(buf []byte, i int) []byte {
		return strconv.AppendFloat(buf, mesh.Vertices[i], 'f', opts.Precision, 64)
	})
	bw.WriteString("    ]\n\n")

	bw.WriteString("    static let indices: [UInt32] = [\n")
	writeChunks(bw, len(mesh.Indices), opts.PerLine, indent, func(buf []byte, i int) []byte {
		return strconv.AppendUint(buf, uint64(mesh.Indices[i]), 10)
	})
	bw.WriteString("    ]\n")
	bw.WriteString("}\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	return nil
}

// Bytes renders mesh into memory.
func Bytes(mesh *models.MeshData, opts Options) ([]byte, error) {
	var sb strings.Builder
	if err := Render(&sb, mesh, opts); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// writeChunks emits n values, perLine to a line, each line indented and
// terminated by a comma. The last line holds the remainder.
func writeChunks(w *bufio.Writer, n, perLine int, indent string, format func([]byte, int) []byte) {
	var line []byte
	for start := 0; start < n; start += perLine {
		end := min(start+perLine, n)
		line = append(line[:0], indent...)
		for i := start; i < end; i++ {
			if i > start {
				line = append(line, ", "...)
			}
			line = format(line, i)
		}
		line = append(line, ",\n"...)
		w.Write(line)
	}
}
