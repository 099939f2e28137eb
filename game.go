package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/milk9111/platformkit/chipmunk"
	"github.com/milk9111/platformkit/controller"
	"github.com/milk9111/platformkit/profiles"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// pixels per frame squared; the space is stepped once per frame
	gravity = 0.5

	spawnX       = 120
	spawnY       = 200
	playerWidth  = 32
	playerHeight = 64
)

type Game struct {
	frames int

	logger   *zap.Logger
	specName string

	registry *controller.Registry
	tracker  *controller.GroundContactTracker
	world    *chipmunk.World
	player   *chipmunk.PlayerBody
	ctrl     *controller.Controller
	input    *Input
	arena    *Arena
	watcher  *profiles.Watcher

	playerImg *ebiten.Image
}

func NewGame(specName string, smoothing bool, grace int, logger *zap.Logger) (*Game, error) {
	registry, err := profiles.LoadRegistry(specName)
	if err != nil {
		return nil, fmt.Errorf("load surfaces: %w", err)
	}

	tracker, err := controller.NewGroundContactTracker(controller.TrackerConfig{
		Registry:   registry,
		GraceTicks: grace,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	world := chipmunk.NewWorld(gravity, tracker)
	arena := BuildArena(world)

	player, err := world.AttachPlayer(spawnX, spawnY, playerWidth, playerHeight, 1)
	if err != nil {
		return nil, err
	}

	input := NewInput()
	ctrl, err := controller.New(controller.Config{
		Body:      player,
		Tracker:   tracker,
		Sampler:   input,
		Smoothing: smoothing,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	// live-reload is best effort; the profiles/ dir only exists when
	// running from the repo root
	watcher, err := profiles.NewWatcher("profiles", "profiles/scripts")
	if err != nil {
		logger.Info("surface live-reload disabled", zap.Error(err))
		watcher = nil
	}

	playerImg := ebiten.NewImage(playerWidth, playerHeight)
	playerImg.Fill(playerColor)

	return &Game{
		logger:    logger,
		specName:  specName,
		registry:  registry,
		tracker:   tracker,
		world:     world,
		player:    player,
		ctrl:      ctrl,
		input:     input,
		arena:     arena,
		watcher:   watcher,
		playerImg: playerImg,
	}, nil
}

func (g *Game) Update() error {
	g.frames++

	g.input.Update()
	g.reloadIfChanged()

	// the space delivers contact begin/separate callbacks inside Step, so
	// the tracker reflects this frame's contacts when the controller runs
	g.world.Step(1.0)
	g.ctrl.Step(1.0)

	if _, y := g.player.Position(); y > baseHeight+100 {
		g.player.Teleport(spawnX, spawnY)
	}

	return nil
}

func (g *Game) reloadIfChanged() {
	if g.watcher == nil {
		return
	}
	select {
	case name, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		reloaded, err := profiles.LoadRegistry(g.specName)
		if err != nil {
			g.logger.Warn("surface reload failed, keeping previous table",
				zap.String("file", name), zap.Error(err))
			return
		}
		g.registry.Replace(reloaded)
		g.logger.Info("surface table reloaded", zap.String("file", name))
	default:
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.arena.Draw(screen)

	x, y := g.player.Position()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x-playerWidth/2, y-playerHeight/2)
	screen.DrawImage(g.playerImg, op)

	surface := "-"
	if p, err := g.tracker.Surface(); err == nil {
		surface = p.Name
	}
	m := g.ctrl.Motion()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %.0f  state: %s  surface: %s  contacts: %d  vel: (%.1f, %.1f)\nsurfaces: %s",
		ebiten.ActualFPS(), g.ctrl.StateName(), surface, g.tracker.ContactCount(), m.VX, m.VY,
		strings.Join(g.registry.Names(), ", ")))
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}
