package main

import (
	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/nfnt/resize"
	"github.com/soypat/hapt"
)

const (
	previewWidth, previewHeight = 768, 432
	previewSupersample          = 2
	previewDistance             = 4.5 // camera distance from the unit cube center
	previewFovy                 = 30
)

// previewCamera returns the object space camera position and up vector of
// the model-view mv, looking at the origin of the unit cube the boundary is
// fitted into.
func previewCamera(mv mgl32.Mat4) (eye, up fauxgl.Vector) {
	dir := hapt.NewView(mv).Eye()
	if dir.Len() == 0 {
		dir = mgl32.Vec3{1, 1, 1}.Normalize()
	}
	u := mv.Inv().Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	if u.Len() == 0 || mgl32.Abs(u.Normalize().Dot(dir)) > 0.99 {
		u = mgl32.Vec3{0, 0, 1}
	}
	eye = fauxgl.V(float64(dir[0]), float64(dir[1]), float64(dir[2])).MulScalar(previewDistance)
	return eye, fauxgl.V(float64(u[0]), float64(u[1]), float64(u[2]))
}

// renderPreview shades the boundary surface stored in stlPath as seen from
// the ordering view mv and writes it as a PNG.
func renderPreview(stlPath, pngPath string, mv mgl32.Mat4) error {
	surface, err := fauxgl.LoadSTL(stlPath)
	if err != nil {
		return err
	}
	surface.BiUnitCube()
	eye, up := previewCamera(mv)
	ctx := fauxgl.NewContext(previewWidth*previewSupersample, previewHeight*previewSupersample)
	ctx.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(previewWidth) / previewHeight
	camera := fauxgl.LookAt(eye, fauxgl.Vector{}, up).Perspective(previewFovy, aspect, 1, 10)
	// Light from the viewer so front-facing boundary faces are lit.
	shader := fauxgl.NewPhongShader(camera, eye.Normalize(), eye)
	shader.ObjectColor = fauxgl.HexColor("#468966")
	ctx.Shader = shader
	ctx.DrawMesh(surface)
	img := resize.Resize(previewWidth, previewHeight, ctx.Image(), resize.Bilinear)
	return fauxgl.SavePNG(pngPath, img)
}
