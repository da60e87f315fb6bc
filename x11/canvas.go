package x11

import (
	"errors"
	"image"
	"image/color"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xgraphics"

	"github.com/BobdaProgrammer/karmen/wm"
)

const minCanvas = 64

// canvas is an xgraphics image bound to one window. The image may be
// larger than the window so that growing windows rarely reallocate.
type canvas struct {
	xu            *xgbutil.XUtil
	win           xproto.Window
	font          *Font
	img           *xgraphics.Image
	width, height int
}

func (c *Conn) NewCanvas(win xproto.Window, width, height int) (wm.Canvas, error) {
	cv := &canvas{xu: c.xu, win: win, font: c.font}
	if err := cv.alloc(grow(0, width), grow(0, height)); err != nil {
		return nil, err
	}
	cv.width, cv.height = width, height
	return cv, nil
}

func (c *canvas) alloc(w, h int) error {
	img := xgraphics.New(c.xu, image.Rect(0, 0, w, h))
	if err := img.XSurfaceSet(c.win); err != nil {
		img.Destroy()
		return err
	}
	if c.img != nil {
		c.img.Destroy()
	}
	c.img = img
	return nil
}

func (c *canvas) Resize(width, height int) error {
	b := c.img.Bounds()
	if width > b.Dx() || height > b.Dy() {
		if err := c.alloc(grow(b.Dx(), width), grow(b.Dy(), height)); err != nil {
			return err
		}
	}
	c.width, c.height = width, height
	return nil
}

func (c *canvas) FillRect(r wm.Rect, col color.Color) {
	px := toBGRA(col)
	rect := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height).Intersect(c.img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c.img.SetBGRA(x, y, px)
		}
	}
}

func (c *canvas) DrawText(x, y int, col color.Color, text string) {
	if c.font == nil || text == "" {
		return
	}
	// Glyphs outside the image are clipped.
	_, _, _ = c.img.Text(x, y, col, c.font.size, c.font.face, text)
}

func (c *canvas) Flush() error {
	if c.img == nil {
		return errors.New("canvas released")
	}
	c.img.XDraw()
	c.img.XPaintRects(c.win, image.Rect(0, 0, c.width, c.height))
	return nil
}

func (c *canvas) Expose(r wm.Rect) error {
	if c.img == nil {
		return errors.New("canvas released")
	}
	c.img.XPaintRects(c.win, image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height))
	return nil
}

func (c *canvas) Release() {
	if c.img != nil {
		c.img.Destroy()
		c.img = nil
	}
}

// grow returns a capacity of at least want, doubling from cur.
func grow(cur, want int) int {
	if want <= cur {
		return cur
	}
	n := max(cur, minCanvas)
	for n < want {
		n *= 2
	}
	return n
}

func toBGRA(col color.Color) xgraphics.BGRA {
	r, g, b, a := col.RGBA()
	return xgraphics.BGRA{B: uint8(b >> 8), G: uint8(g >> 8), R: uint8(r >> 8), A: uint8(a >> 8)}
}
