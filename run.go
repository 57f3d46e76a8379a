package sapling

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Run configures the window from cfg and runs scene as the ebiten game. It
// blocks until the window closes or the scene's update func returns an
// error.
func Run(scene *Scene, cfg RunConfig) error {
	cfg = cfg.withDefaults()
	applyRunConfig(scene, cfg)

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(cfg.TPS)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	var game ebiten.Game = scene
	if cfg.ShowFPS {
		game = &fpsOverlay{Scene: scene}
	}
	return ebiten.RunGame(game)
}

// applyRunConfig copies the scene-level settings of cfg onto scene.
func applyRunConfig(scene *Scene, cfg RunConfig) {
	if cfg.FixedStep > 0 {
		scene.FixedStep = cfg.FixedStep
	}
	if cfg.Debug {
		scene.SetDebugMode(true)
	}
	if cfg.Physics != nil && scene.physics == nil {
		scene.EnablePhysics(cfg.Physics.Config())
	}
	if scene.ui != nil && scene.input == nil {
		scene.SetInput(&EbitenInput{})
	}
}

// fpsOverlay draws the measured update and draw rates over the scene,
// refreshed every half second.
type fpsOverlay struct {
	*Scene
	label   string
	elapsed float64
}

func (o *fpsOverlay) Update() error {
	if err := o.Scene.Update(); err != nil {
		return err
	}
	o.elapsed += o.Scene.timer.Delta()
	if o.label == "" || o.elapsed >= 0.5 {
		o.elapsed = 0
		o.label = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), o.Scene.FPS())
	}
	return nil
}

func (o *fpsOverlay) Draw(screen *ebiten.Image) {
	o.Scene.Draw(screen)
	ebitenutil.DebugPrint(screen, o.label)
}
