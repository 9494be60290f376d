package d3

import "github.com/go-gl/mathgl/mgl32"

// Box is a 3d axis aligned bounding box.
type Box struct {
	Min, Max mgl32.Vec3
}

// Include enlarges a 3d box to include a point.
func (a Box) Include(v mgl32.Vec3) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Size returns the size of a 3d box.
func (a Box) Size() mgl32.Vec3 {
	return a.Max.Sub(a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() mgl32.Vec3 {
	return a.Min.Add(a.Size().Mul(0.5))
}
