// Package view draws a sprig forest in an Ebitengine window.
//
// Nodes are projected orthographically through a [Camera] and drawn as dots
// joined to their parents by lines. The dot color shows the node's relation:
//
//	white   root without a relation
//	blue    Rigid
//	green   PositionOnly
//	orange  DampedFollow
//	gray    custom relation
//
// [Run] opens a window and drives the forest's Update from Ebitengine's game
// loop. For full control, use [NewViewer] and call its Update and Draw from
// your own [ebiten.Game].
package view

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/sprig"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS draws FPS, TPS, and propagation counters in the top-left corner.
	ShowFPS bool
	// ShowNames labels every node with its name.
	ShowNames bool
	// ClearColor fills the screen before drawing. Zero means dark gray.
	ClearColor color.Color
}

var (
	colorRoot     = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colorRigid    = color.RGBA{0x50, 0xb4, 0xff, 0xff}
	colorPosition = color.RGBA{0x6c, 0xd6, 0x6c, 0xff}
	colorDamped   = color.RGBA{0xff, 0xa0, 0x3c, 0xff}
	colorCustom   = color.RGBA{0x90, 0x90, 0x90, 0xff}
	colorLink     = color.RGBA{0x80, 0x80, 0x90, 0xff}
	colorClear    = color.RGBA{0x1e, 0x1e, 0x28, 0xff}
)

// nodeColor picks the dot color for a node's relation.
func nodeColor(n *sprig.Node) color.Color {
	rel := n.Relation()
	if rel == nil {
		return colorRoot
	}
	kind, ok := sprig.KindOf(rel)
	if !ok {
		return colorCustom
	}
	switch kind {
	case sprig.RelationPositionOnly:
		return colorPosition
	case sprig.RelationDampedFollow:
		return colorDamped
	default:
		return colorRigid
	}
}

// projected is a node's screen position for one Draw call.
type projected struct {
	node  *sprig.Node
	x, y  float64
	depth float64
}

// Viewer implements ebiten.Game for a forest.
type Viewer struct {
	forest *sprig.Forest
	cam    *Camera
	cfg    RunConfig
	stats  *statsOverlay

	points map[*sprig.Node]projected
	order  []projected
}

// NewViewer creates a viewer for forest with a camera sized to the config.
func NewViewer(forest *sprig.Forest, cfg RunConfig) *Viewer {
	v := &Viewer{
		forest: forest,
		cam:    NewCamera(float64(cfg.Width), float64(cfg.Height)),
		cfg:    cfg,
		points: make(map[*sprig.Node]projected),
	}
	if cfg.ShowFPS {
		v.stats = newStatsOverlay()
	}
	return v
}

// Camera returns the viewer's camera.
func (v *Viewer) Camera() *Camera {
	return v.cam
}

// Update propagates the forest and advances the camera.
func (v *Viewer) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	if err := v.forest.Update(); err != nil {
		return err
	}
	v.cam.update(dt)
	if v.stats != nil {
		v.stats.update(float64(dt), v.forest.Stats())
	}
	return nil
}

// Draw renders links and nodes back to front.
func (v *Viewer) Draw(screen *ebiten.Image) {
	bg := v.cfg.ClearColor
	if bg == nil {
		bg = colorClear
	}
	screen.Fill(bg)

	v.project()

	for _, p := range v.order {
		parent := p.node.Parent
		if parent == nil {
			continue
		}
		pp, ok := v.points[parent]
		if !ok {
			continue
		}
		vector.StrokeLine(screen, float32(pp.x), float32(pp.y), float32(p.x), float32(p.y), 1, colorLink, true)
	}
	for _, p := range v.order {
		if !v.cam.Visible(p.x, p.y, 8) {
			continue
		}
		vector.DrawFilledCircle(screen, float32(p.x), float32(p.y), 4, nodeColor(p.node), true)
		if v.cfg.ShowNames {
			ebitenutil.DebugPrintAt(screen, p.node.Name, int(p.x)+6, int(p.y)-8)
		}
	}

	if v.stats != nil {
		v.stats.draw(screen)
	}
}

// project fills points and order from the forest's current world positions.
func (v *Viewer) project() {
	clear(v.points)
	v.order = v.order[:0]
	v.forest.Walk(func(n *sprig.Node) bool {
		x, y, d := v.cam.WorldToScreen(n.WorldPosition())
		p := projected{node: n, x: x, y: y, depth: d}
		v.points[n] = p
		v.order = append(v.order, p)
		return true
	})
	sort.SliceStable(v.order, func(i, j int) bool {
		return v.order[i].depth < v.order[j].depth
	})
}

// Layout returns the configured logical screen size.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.cfg.Width, v.cfg.Height
}

// Run opens a window and runs forest under Ebitengine's game loop until the
// window is closed or Update returns an error.
func Run(forest *sprig.Forest, cfg RunConfig) error {
	return RunViewer(NewViewer(forest, cfg))
}

// RunViewer runs an existing viewer, for callers that configured its camera
// before the loop starts.
func RunViewer(v *Viewer) error {
	ebiten.SetWindowTitle(v.cfg.Title)
	ebiten.SetWindowSize(v.cfg.Width, v.cfg.Height)
	return ebiten.RunGame(v)
}
