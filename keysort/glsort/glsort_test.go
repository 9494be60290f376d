package glsort

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/hapt/keysort"
	"github.com/stretchr/testify/require"
)

func init() {
	runtime.LockOSThread() // For GL.
}

var haveGL bool

func TestMain(m *testing.M) {
	_, terminate, err := glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "glsort",
		Version: [2]int{4, 6},
		Width:   1,
		Height:  1,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "glsort: no GL context, GPU tests skipped:", err)
	} else {
		haveGL = true
	}
	code := m.Run()
	if haveGL {
		terminate()
	}
	os.Exit(code)
}

func TestBitonicMatchesCPU(t *testing.T) {
	if !haveGL {
		t.Skip("no GL context")
	}
	gpu, err := NewBitonic()
	require.NoError(t, err)
	defer gpu.Release()
	cpu := keysort.NewQuick()
	rng := rand.New(rand.NewSource(1))
	row := mgl32.Vec4{0.3, -0.2, 0.9, -4}
	for _, n := range []int{1, 3, 256, 1000, 4097} {
		centroids := make([]mgl32.Vec3, n)
		for i := range centroids {
			centroids[i] = mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()}
		}
		require.NoError(t, gpu.Load(centroids))
		require.NoError(t, cpu.Load(centroids))
		got := make([]uint32, n)
		want := make([]uint32, n)
		require.NoError(t, gpu.SortDepth(got, row))
		require.NoError(t, cpu.SortDepth(want, row))
		require.Equal(t, want, got, "n=%d", n)
	}
}
