// Package glsort implements a keysort.DepthSorter as an OpenGL 4.3 compute
// shader bitonic network. Centroids live in a shader storage buffer uploaded
// once; each sort dispatches a key pass followed by one pass per network
// stage and blocks on read-back.
//
// All methods must be called from the goroutine owning the current GL context.
package glsort

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/all-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/hapt/keysort"
)

//go:embed bitonic.glsl
var bitonicSource string

const workgroupSize = 256

// pairSize is the std430 size of a Pair: float key followed by uint id.
const pairSize = int(unsafe.Sizeof(gpuPair{}))

type uniforms struct {
	depthRow, n, padded, j, k, keys int32
}

// Bitonic sorts cell depths on the GPU.
type Bitonic struct {
	prog      glgl.Program
	programID uint32
	loc       uniforms
	centroids uint32
	pairs     uint32
	n         int
	padded    int
	readback  []gpuPair
}

// gpuPair mirrors the shader Pair struct layout.
type gpuPair struct {
	Key float32
	ID  uint32
}

var _ keysort.DepthSorter = (*Bitonic)(nil)

// NewBitonic compiles the sort program. A GL 4.3+ context must be current.
func NewBitonic() (*Bitonic, error) {
	src, err := glgl.ParseCombined(strings.NewReader(bitonicSource))
	if err != nil {
		return nil, err
	}
	prog, err := glgl.CompileProgram(src)
	if err != nil {
		return nil, fmt.Errorf("glsort: compiling bitonic program: %w", err)
	}
	b := &Bitonic{prog: prog}
	prog.Bind()
	var id int32
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &id)
	b.programID = uint32(id)
	b.loc = uniforms{
		depthRow: b.uniform("uDepthRow"),
		n:        b.uniform("uN"),
		padded:   b.uniform("uPadded"),
		j:        b.uniform("uJ"),
		k:        b.uniform("uK"),
		keys:     b.uniform("uKeys"),
	}
	return b, nil
}

func (b *Bitonic) uniform(name string) int32 {
	return gl.GetUniformLocation(b.programID, gl.Str(name+"\x00"))
}

// Load uploads centroids to a storage buffer and allocates the padded pair buffer.
func (b *Bitonic) Load(centroids []mgl32.Vec3) error {
	if len(centroids) == 0 {
		return errors.New("glsort: no centroids")
	}
	b.Release()
	b.n = len(centroids)
	b.padded = keysort.PaddedLen(b.n)
	if b.padded < 2 {
		b.padded = 2
	}
	homog := make([]mgl32.Vec4, b.n)
	for i, c := range centroids {
		homog[i] = c.Vec4(1)
	}
	gl.GenBuffers(1, &b.centroids)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.centroids)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, 16*len(homog), gl.Ptr(homog), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.pairs)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.pairs)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, pairSize*b.padded, nil, gl.DYNAMIC_COPY)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
	b.readback = make([]gpuPair, b.n)
	return glError("load")
}

// SortDepth implements keysort.DepthSorter.
func (b *Bitonic) SortDepth(dst []uint32, row mgl32.Vec4) error {
	if b.n == 0 {
		return keysort.ErrNotLoaded
	}
	if len(dst) != b.n {
		return fmt.Errorf("%w: got %d ids for %d centroids", keysort.ErrLength, len(dst), b.n)
	}
	b.prog.Bind()
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, b.centroids)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, b.pairs)
	gl.Uniform4f(b.loc.depthRow, row[0], row[1], row[2], row[3])
	gl.Uniform1ui(b.loc.n, uint32(b.n))
	gl.Uniform1ui(b.loc.padded, uint32(b.padded))
	groups := uint32((b.padded + workgroupSize - 1) / workgroupSize)

	gl.Uniform1i(b.loc.keys, 1)
	b.dispatch(groups)
	gl.Uniform1i(b.loc.keys, 0)
	for k := 2; k <= b.padded; k <<= 1 {
		gl.Uniform1ui(b.loc.k, uint32(k))
		for j := k >> 1; j > 0; j >>= 1 {
			gl.Uniform1ui(b.loc.j, uint32(j))
			b.dispatch(groups)
		}
	}

	gl.MemoryBarrier(gl.BUFFER_UPDATE_BARRIER_BIT)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.pairs)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, pairSize*b.n, gl.Ptr(b.readback))
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
	if err := glError("sort"); err != nil {
		return err
	}
	for i, p := range b.readback {
		dst[i] = p.ID
	}
	return nil
}

func (b *Bitonic) dispatch(groups uint32) {
	gl.DispatchCompute(groups, 1, 1)
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT)
}

// Release frees the GPU buffers. The sorter may be loaded again afterwards.
func (b *Bitonic) Release() {
	if b.centroids != 0 {
		gl.DeleteBuffers(1, &b.centroids)
		b.centroids = 0
	}
	if b.pairs != 0 {
		gl.DeleteBuffers(1, &b.pairs)
		b.pairs = 0
	}
	b.n = 0
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("glsort: %s: GL error 0x%x", op, code)
	}
	return nil
}
