package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/sprig"
)

// statsOverlay displays FPS, TPS, and the last propagation pass counters.
// The text is refreshed every ~0.5 seconds into a small offscreen image.
type statsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
}

func newStatsOverlay() *statsOverlay {
	// 220x64 fits four lines of debug text
	return &statsOverlay{img: ebiten.NewImage(220, 64), lastUpdate: 1}
}

func (o *statsOverlay) update(dt float64, stats sprig.PropagateStats) {
	o.lastUpdate += dt
	if o.lastUpdate < 0.5 {
		return
	}
	o.lastUpdate = 0

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})

	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f  TPS: %.1f\nvisited: %d  recomputed: %d\nrescheduled: %d  synced: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		stats.Visited, stats.Recomputed, stats.Rescheduled, stats.Synced))
}

func (o *statsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
