// Package meshio reads and writes tetrahedral meshes, their face
// connectivity and derived surface geometry.
//
// Supported formats are the OFF tetrahedral format (vertex count and tetra
// count header followed by x y z scalar vertex rows and 4 index tetra rows),
// .con text connectivity files, a zstd compressed binary connectivity cache,
// binary STL of the boundary surface and binary glTF of cells in draw order.
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/soypat/hapt"
)

// outwardFace returns the vertices of face f of tetra t wound
// counterclockwise when seen from outside the tetra.
func outwardFace(m *hapt.Mesh, t, f int) [3]uint32 {
	face := m.Face(t, f)
	v0 := m.Vertices[face[0]]
	n := m.Vertices[face[1]].Sub(v0).Cross(m.Vertices[face[2]].Sub(v0))
	if n.Dot(m.Vertices[m.Opposite(t, f)].Sub(v0)) > 0 {
		face[1], face[2] = face[2], face[1]
	}
	return face
}

// tokenizer reads whitespace separated numbers.
type tokenizer struct {
	s    *bufio.Scanner
	line int
}

func newTokenizer(r io.Reader) *tokenizer {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return &tokenizer{s: s}
}

func (t *tokenizer) next(what string) (string, error) {
	if !t.s.Scan() {
		if err := t.s.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("meshio: unexpected end of input reading %s", what)
	}
	t.line++
	return t.s.Text(), nil
}

func (t *tokenizer) uint(what string) (uint64, error) {
	tok, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("meshio: token %d: %s: %w", t.line, what, err)
	}
	return v, nil
}

func (t *tokenizer) float(what string) (float32, error) {
	tok, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, fmt.Errorf("meshio: token %d: %s: %w", t.line, what, err)
	}
	return float32(v), nil
}
