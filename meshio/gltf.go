package meshio

import (
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/soypat/hapt"
)

// WriteGLB writes the faces of the cells of m as a binary glTF triangle
// mesh, cell after cell in the given order, so drawing the index buffer in
// sequence composites the cells in that order. A nil order writes cells in
// mesh order.
func WriteGLB(w io.Writer, m *hapt.Mesh, order []uint32) error {
	if order == nil {
		order = make([]uint32, len(m.Tetras))
		for i := range order {
			order[i] = uint32(i)
		}
	}
	positions := make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = v
	}
	indices := make([]uint32, 0, 12*len(order))
	for _, c := range order {
		if int(c) >= len(m.Tetras) {
			return fmt.Errorf("meshio: cell %d out of range", c)
		}
		for f := 0; f < 4; f++ {
			face := outwardFace(m, int(c), f)
			indices = append(indices, face[:]...)
		}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "hapt"
	posAccessor := modeler.WritePosition(doc, positions)
	indicesAccessor := modeler.WriteIndices(doc, indices)
	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(posAccessor),
		},
		Indices:  gltf.Index(uint32(indicesAccessor)),
		Material: gltf.Index(0),
	}
	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float32{1, 1, 1, 0.1},
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(1),
	}
	doc.Materials = []*gltf.Material{{PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaBlend, DoubleSided: true}}
	doc.Meshes = []*gltf.Mesh{{Name: "cells", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "cells", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))

	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return enc.Encode(doc)
}
