package usecase

import (
	"math"

	"github.com/sucrecam/backend/internal/domain"
)

// Layout tuning constants. Cube size scales with the detection box width and
// is clamped so the pyramid stays legible at extreme counts.
const (
	baseCubeSize   = 14.0  // px edge at scale 1
	anchorRefWidth = 180.0 // box width that maps to scale 1
	minCubeScale   = 0.8
	maxCubeScale   = 2.5
	cubeGapRatio   = 0.1  // padding between cubes, fraction of cube size
	anchorDrop     = 10.0 // px below the anchor's bottom edge
)

// LayoutEngine arranges cube counts into screen-space pyramids. Viewport
// dimensions provide a default anchor when the detector reports none.
type LayoutEngine struct {
	viewportW float64
	viewportH float64
}

// NewLayoutEngine creates a layout engine for the given viewport size
func NewLayoutEngine(viewportW, viewportH float64) *LayoutEngine {
	return &LayoutEngine{viewportW: viewportW, viewportH: viewportH}
}

// Build packs cubeCount cubes into a centered stepped pyramid anchored to
// box. Rows are placed widest first, each row holding ceil(sqrt(remaining))
// cubes, which yields a balanced silhouette (9 cubes pack as 3,3,2,1). Every
// row is centered on the anchor's horizontal midpoint; the widest row sits
// just below the anchor's base and later rows stack upward.
//
// The layout is recomputed from scratch on every call; callers clear any
// previous visual state themselves.
func (e *LayoutEngine) Build(cubeCount int, anchor *domain.AnchorBox) domain.CubeLayout {
	if cubeCount <= 0 {
		return domain.CubeLayout{}
	}

	box := anchor
	if box == nil {
		box = e.defaultAnchor()
	}

	scale := clamp(box.W/anchorRefWidth, minCubeScale, maxCubeScale)
	size := baseCubeSize * scale
	step := size * (1 + cubeGapRatio)

	centerX := box.X + box.W/2
	baseY := box.Y + box.H + anchorDrop + size/2

	layout := make(domain.CubeLayout, 0, cubeCount)
	remaining := cubeCount
	row := 0
	for remaining > 0 {
		width := int(math.Ceil(math.Sqrt(float64(remaining))))
		if width > remaining {
			width = remaining
		}

		y := baseY - float64(row)*step
		for i := 0; i < width; i++ {
			x := centerX + (float64(i)-float64(width-1)/2)*step
			layout = append(layout, domain.CubePosition{X: x, Y: y, Size: size})
		}

		remaining -= width
		row++
	}

	return layout
}

// defaultAnchor is the sticky fallback box when no detection is available:
// a third of the viewport width, centered, base at two thirds of the height.
func (e *LayoutEngine) defaultAnchor() *domain.AnchorBox {
	w := e.viewportW / 3
	return &domain.AnchorBox{
		X: (e.viewportW - w) / 2,
		Y: e.viewportH * 2 / 3,
		W: w,
		H: 0,
	}
}

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}
