package main

import (
	"runtime"

	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/hapt/keysort/glsort"
)

func init() {
	runtime.LockOSThread() // For GL.
}

// newGPUSorter opens a hidden GL context and compiles the GPU bitonic sorter.
func newGPUSorter() (*glsort.Bitonic, func(), error) {
	_, terminate, err := glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "haptorder",
		Version: [2]int{4, 6},
		Width:   1,
		Height:  1,
	})
	if err != nil {
		return nil, nil, err
	}
	sorter, err := glsort.NewBitonic()
	if err != nil {
		terminate()
		return nil, nil, err
	}
	return sorter, func() {
		sorter.Release()
		terminate()
	}, nil
}
