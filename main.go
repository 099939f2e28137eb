package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

func main() {
	smoothing := flag.Bool("smooth", false, "enable acceleration/deceleration ramping")
	grace := flag.Int("grace", 0, "extra ticks grounded state persists after leaving a platform")
	surfaces := flag.String("surfaces", "surfaces.yaml", "surface table in profiles/ (disk copy overrides embedded)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("platformkit demo")

	game, err := NewGame(*surfaces, *smoothing, *grace, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
