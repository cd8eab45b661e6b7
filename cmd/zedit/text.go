// text.go - bitmap font rendering for the editor pane and register panel

package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// textFace is the fixed-width bitmap font every pane in this tool draws
// with. The teacher converts a PNG bitmap font to a raw blitter format
// for its own 32-bit core (tools/font2rgba.go); this editor has no
// custom blitter to feed, so it rasterises glyphs straight from x/image's
// built-in face instead of a hand-rolled one.
var textFace = basicfont.Face7x13

// glyphCache holds one rasterised GPU texture per distinct (string, color)
// pair drawn so far. Most rows redraw the same text every frame (idle
// editor lines, a register that didn't change this tick), so caching
// avoids re-rasterising and re-uploading a texture 60 times a second for
// text that hasn't moved. Cleared once it grows past a few thousand
// entries, since an actively-edited buffer keeps producing new strings.
var glyphCache = map[glyphKey]*ebiten.Image{}

type glyphKey struct {
	text string
	clr  color.Color
}

const glyphCacheLimit = 4096

// drawText rasterises s in clr onto dst, with (x, y) naming the glyphs'
// top-left corner (not the font baseline font.Drawer itself works in).
func drawText(dst *ebiten.Image, x, y int, s string, clr color.Color) {
	if s == "" {
		return
	}

	key := glyphKey{text: s, clr: clr}
	img, ok := glyphCache[key]
	if !ok {
		img = rasterizeText(s, clr)
		if img == nil {
			return
		}
		if len(glyphCache) >= glyphCacheLimit {
			glyphCache = map[glyphKey]*ebiten.Image{}
		}
		glyphCache[key] = img
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	dst.DrawImage(img, op)
}

func rasterizeText(s string, clr color.Color) *ebiten.Image {
	bounds, _ := font.BoundString(textFace, s)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	if w <= 0 {
		return nil
	}
	ascent := textFace.Metrics().Ascent.Ceil()
	height := textFace.Metrics().Height.Ceil()

	glyphs := image.NewRGBA(image.Rect(0, 0, w, height))
	drawer := font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(clr),
		Face: textFace,
		Dot:  fixed.P(0, ascent),
	}
	drawer.DrawString(s)

	return ebiten.NewImageFromImage(glyphs)
}
