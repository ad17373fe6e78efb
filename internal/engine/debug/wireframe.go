// Package debug renders developer visualizations of the terrain frontier.
package debug

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

var (
	backgroundColor = color.RGBA{16, 16, 24, 255}
	edgeColor       = color.RGBA{90, 140, 220, 255}
	frontierColor   = color.RGBA{255, 200, 0, 255}
	boundsColor     = color.RGBA{80, 80, 80, 255}
	trackedColor    = color.RGBA{230, 60, 60, 255}
)

// Wireframe draws a mesh projected onto the plane spanned by the tangent and
// bitangent of Plane, centered on Center.
type Wireframe struct {
	Size   int     // image width and height in pixels
	Scale  float64 // pixels per world unit
	Plane  math.Frame
	Center mgl32.Vec3
}

// NewWireframe creates a renderer looking down the normal of plane.
func NewWireframe(size int, scale float64, plane math.Frame) *Wireframe {
	return &Wireframe{Size: size, Scale: scale, Plane: plane}
}

// Project maps a world position to image coordinates.
func (w *Wireframe) Project(p mgl32.Vec3) (x, y float64) {
	d := p.Sub(w.Center)
	half := float64(w.Size) / 2
	x = half + float64(d.Dot(w.Plane.Tangent))*w.Scale
	y = half - float64(d.Dot(w.Plane.Bitangent))*w.Scale
	return x, y
}

// Scene holds everything drawn in one snapshot.
type Scene struct {
	Mesh     *terrain.Mesh
	Frontier []mgl32.Vec3 // ring heads in order
	Tracked  mgl32.Vec3
	Radius   float32
}

// Render draws the triangles, the bounds, the frontier ring and the tracking
// circle.
func (w *Wireframe) Render(f Scene) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w.Size, w.Size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: backgroundColor}, image.Point{}, draw.Src)

	gc := draw2dimg.NewGraphicContext(img)

	if f.Mesh != nil && len(f.Mesh.Vertices) > 0 {
		gc.SetLineWidth(1)
		gc.SetStrokeColor(boundsColor)
		for _, e := range BoundsEdges(f.Mesh.Bounds, 0) {
			w.line(gc, e[0], e[1])
		}

		gc.SetStrokeColor(edgeColor)
		for i := 0; i+2 < len(f.Mesh.Indices); i += 3 {
			a := mgl32.Vec3(f.Mesh.Vertices[f.Mesh.Indices[i]].Position)
			b := mgl32.Vec3(f.Mesh.Vertices[f.Mesh.Indices[i+1]].Position)
			c := mgl32.Vec3(f.Mesh.Vertices[f.Mesh.Indices[i+2]].Position)
			w.line(gc, a, b)
			w.line(gc, b, c)
			w.line(gc, c, a)
		}
	}

	if n := len(f.Frontier); n > 1 {
		gc.SetLineWidth(2)
		gc.SetStrokeColor(frontierColor)
		for i := range f.Frontier {
			w.line(gc, f.Frontier[i], f.Frontier[(i+1)%n])
		}
	}

	if f.Radius > 0 {
		gc.SetLineWidth(1)
		gc.SetStrokeColor(trackedColor)
		x, y := w.Project(f.Tracked)
		draw2dkit.Circle(gc, x, y, float64(f.Radius)*w.Scale)
		gc.Stroke()
	}

	return img
}

func (w *Wireframe) line(gc *draw2dimg.GraphicContext, a, b mgl32.Vec3) {
	x0, y0 := w.Project(a)
	x1, y1 := w.Project(b)
	gc.MoveTo(x0, y0)
	gc.LineTo(x1, y1)
	gc.Stroke()
}
