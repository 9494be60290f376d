package hapt

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/hapt/internal/d3"
)

// View is a model-view transform prepared for ordering: the depth row used
// to compute view-space depth and the object-space eye direction.
type View struct {
	mv       mgl32.Mat4
	depthRow mgl32.Vec4
	eye      mgl32.Vec3
}

// NewView prepares a column-major OpenGL model-view matrix for ordering.
// A singular matrix yields a zero eye direction, which makes every face
// count as front-facing and every internal face point inward.
func NewView(mv mgl32.Mat4) View {
	eye := mv.Inv().Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
	return View{
		mv:       mv,
		depthRow: mv.Row(2),
		eye:      d3.Unit(eye),
	}
}

// ModelView returns the model-view matrix the view was built from.
func (v View) ModelView() mgl32.Mat4 { return v.mv }

// DepthRow returns the third row of the model-view matrix.
func (v View) DepthRow() mgl32.Vec4 { return v.depthRow }

// Eye returns the unit object-space direction pointing from the scene
// toward the viewer.
func (v View) Eye() mgl32.Vec3 { return v.eye }

// Depth returns the view-space depth of p. Smaller values lie farther from
// an OpenGL camera looking down -Z.
func (v View) Depth(p mgl32.Vec3) float32 {
	r := v.depthRow
	return r[0]*p[0] + r[1]*p[1] + r[2]*p[2] + r[3]
}
