package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/colornames"

	"github.com/milk9111/platformkit/chipmunk"
)

var (
	playerColor   = colornames.Crimson
	surfaceColors = map[string]color.RGBA{
		"normal":   colornames.Slategray,
		"slippery": colornames.Lightblue,
		"sticky":   colornames.Darkolivegreen,
	}
)

type platform struct {
	x, y, w, h float64
	surface    string
	img        *ebiten.Image
}

// Arena is the demo level: one platform per surface type, with the two
// floor slabs touching so walking across the seam briefly overlaps both
// ground contacts.
type Arena struct {
	platforms []platform
}

func BuildArena(world *chipmunk.World) *Arena {
	a := &Arena{}
	add := func(x, y, w, h float64, surface string) {
		world.AddPlatform(x, y, w, h, surface)
		img := ebiten.NewImage(int(w), int(h))
		c, ok := surfaceColors[surface]
		if !ok {
			c = colornames.Dimgray
		}
		img.Fill(c)
		a.platforms = append(a.platforms, platform{x: x, y: y, w: w, h: h, surface: surface, img: img})
	}

	// floor: two touching normal slabs, then ice
	add(0, 600, 400, 120, "normal")
	add(400, 600, 300, 120, "normal")
	add(700, 600, 580, 120, "slippery")

	// raised platforms
	add(250, 470, 180, 24, "sticky")
	add(560, 400, 180, 24, "normal")
	add(900, 330, 180, 24, "slippery")

	// a platform with a tag the surface table doesn't know; the tracker
	// falls back to the default profile
	add(80, 340, 120, 24, "mystery")

	return a
}

func (a *Arena) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)
	for _, p := range a.platforms {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(p.x, p.y)
		screen.DrawImage(p.img, op)
	}
}
