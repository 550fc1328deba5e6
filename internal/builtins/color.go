package builtins

import (
	"math"
	"math/big"

	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/token"
	"github.com/cwbudde/cssc/internal/value"
)

func colorArg(args []value.Value, i int, fname string, pos token.Position) (*value.Color, error) {
	if i >= len(args) {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "%s(): missing argument %d.", fname, i+1)
	}
	c, ok := args[i].(*value.Color)
	if !ok {
		return nil, cssErrors.New(cssErrors.TypeError, pos, "%s(): %s is not a color.", fname, args[i].Inspect())
	}
	return c, nil
}

func channelArg(args []value.Value, i int, fname string, pos token.Position) (uint8, error) {
	d, err := dimArg(args, i, fname, pos)
	if err != nil {
		return 0, err
	}
	f, _ := d.Num.Float64()
	return clamp8(int(math.Round(f))), nil
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func RGB(args []value.Value, pos token.Position) (value.Value, error) {
	r, err := channelArg(args, 0, "rgb", pos)
	if err != nil {
		return nil, err
	}
	g, err := channelArg(args, 1, "rgb", pos)
	if err != nil {
		return nil, err
	}
	b, err := channelArg(args, 2, "rgb", pos)
	if err != nil {
		return nil, err
	}
	return &value.Color{R: r, G: g, B: b, A: 1}, nil
}

func RGBA(args []value.Value, pos token.Position) (value.Value, error) {
	// rgba($color, $alpha) re-stamps an existing color's alpha channel.
	if len(args) == 2 {
		if c, ok := args[0].(*value.Color); ok {
			a, err := dimArg(args, 1, "rgba", pos)
			if err != nil {
				return nil, err
			}
			af, _ := a.Num.Float64()
			return &value.Color{R: c.R, G: c.G, B: c.B, A: clampF(af, 0, 1)}, nil
		}
	}
	r, err := channelArg(args, 0, "rgba", pos)
	if err != nil {
		return nil, err
	}
	g, err := channelArg(args, 1, "rgba", pos)
	if err != nil {
		return nil, err
	}
	b, err := channelArg(args, 2, "rgba", pos)
	if err != nil {
		return nil, err
	}
	a, err := dimArg(args, 3, "rgba", pos)
	if err != nil {
		return nil, err
	}
	af, _ := a.Num.Float64()
	return &value.Color{R: r, G: g, B: b, A: clampF(af, 0, 1)}, nil
}

// RGBAAdjust is kept for call sites that reach rgba() with exactly the
// 4-channel form through a generic dispatcher; it behaves identically to
// RGBA.
func RGBAAdjust(args []value.Value, pos token.Position) (value.Value, error) {
	return RGBA(args, pos)
}

func percentArg(args []value.Value, i int, fname string, pos token.Position) (float64, error) {
	d, err := dimArg(args, i, fname, pos)
	if err != nil {
		return 0, err
	}
	f, _ := d.Num.Float64()
	if d.Unit == "%" {
		return f, nil
	}
	return f * 100, nil
}

func HSL(args []value.Value, pos token.Position) (value.Value, error) {
	return hslImpl(args, pos, "hsl", 1)
}

func HSLA(args []value.Value, pos token.Position) (value.Value, error) {
	return hslImpl(args, pos, "hsla", -1)
}

func hslImpl(args []value.Value, pos token.Position, fname string, forcedAlpha float64) (value.Value, error) {
	h, err := dimArg(args, 0, fname, pos)
	if err != nil {
		return nil, err
	}
	hf, _ := h.Num.Float64()
	s, err := percentArg(args, 1, fname, pos)
	if err != nil {
		return nil, err
	}
	l, err := percentArg(args, 2, fname, pos)
	if err != nil {
		return nil, err
	}
	alpha := forcedAlpha
	if forcedAlpha < 0 {
		a, err := dimArg(args, 3, fname, pos)
		if err != nil {
			return nil, err
		}
		alpha, _ = a.Num.Float64()
	}
	r, g, b := hslToRGB(hf, clampF(s, 0, 100)/100, clampF(l, 0, 100)/100)
	return &value.Color{R: r, G: g, B: b, A: clampF(alpha, 0, 1)}, nil
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if s == 0 {
		v := clamp8(int(math.Round(l * 255)))
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hk := h / 360
	r := hueToRGB(p, q, hk+1.0/3)
	g := hueToRGB(p, q, hk)
	b := hueToRGB(p, q, hk-1.0/3)
	return clamp8(int(math.Round(r * 255))), clamp8(int(math.Round(g * 255))), clamp8(int(math.Round(b * 255)))
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func rgbToHSL(c *value.Color) (h, s, l float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2
	if max == min {
		return 0, 0, l
	}
	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}
	h *= 60
	return h, s, l
}

func Red(args []value.Value, pos token.Position) (value.Value, error) {
	c, err := colorArg(args, 0, "red", pos)
	if err != nil {
		return nil, err
	}
	return value.NewInt(int64(c.R), ""), nil
}

func Green(args []value.Value, pos token.Position) (value.Value, error) {
	c, err := colorArg(args, 0, "green", pos)
	if err != nil {
		return nil, err
	}
	return value.NewInt(int64(c.G), ""), nil
}

func Blue(args []value.Value, pos token.Position) (value.Value, error) {
	c, err := colorArg(args, 0, "blue", pos)
	if err != nil {
		return nil, err
	}
	return value.NewInt(int64(c.B), ""), nil
}

func Alpha(args []value.Value, pos token.Position) (value.Value, error) {
	c, err := colorArg(args, 0, "alpha", pos)
	if err != nil {
		return nil, err
	}
	return value.NewDimension(new(big.Rat).SetFloat64(c.A), ""), nil
}

func Mix(args []value.Value, pos token.Position) (value.Value, error) {
	a, err := colorArg(args, 0, "mix", pos)
	if err != nil {
		return nil, err
	}
	b, err := colorArg(args, 1, "mix", pos)
	if err != nil {
		return nil, err
	}
	weight := 50.0
	if len(args) > 2 {
		weight, err = percentArg(args, 2, "mix", pos)
		if err != nil {
			return nil, err
		}
	}
	// Sass's weighted alpha-aware mix algorithm.
	p := weight / 100
	w := 2*p - 1
	alphaDelta := a.A - b.A
	var w1 float64
	if w*alphaDelta == -1 {
		w1 = w
	} else {
		w1 = (w + alphaDelta) / (1 + w*alphaDelta)
	}
	w1 = (w1 + 1) / 2
	w2 := 1 - w1
	r := w1*float64(a.R) + w2*float64(b.R)
	g := w1*float64(a.G) + w2*float64(b.G)
	bl := w1*float64(a.B) + w2*float64(b.B)
	alpha := a.A*p + b.A*(1-p)
	return &value.Color{R: clamp8(int(math.Round(r))), G: clamp8(int(math.Round(g))), B: clamp8(int(math.Round(bl))), A: clampF(alpha, 0, 1)}, nil
}

func Lighten(args []value.Value, pos token.Position) (value.Value, error) {
	return adjustLightness(args, pos, "lighten", 1)
}

func Darken(args []value.Value, pos token.Position) (value.Value, error) {
	return adjustLightness(args, pos, "darken", -1)
}

func adjustLightness(args []value.Value, pos token.Position, fname string, sign float64) (value.Value, error) {
	c, err := colorArg(args, 0, fname, pos)
	if err != nil {
		return nil, err
	}
	amt, err := percentArg(args, 1, fname, pos)
	if err != nil {
		return nil, err
	}
	h, s, l := rgbToHSL(c)
	l = clampF(l+sign*amt/100, 0, 1)
	r, g, b := hslToRGB(h, s, l)
	return &value.Color{R: r, G: g, B: b, A: c.A}, nil
}

func Saturate(args []value.Value, pos token.Position) (value.Value, error) {
	return adjustSaturation(args, pos, "saturate", 1)
}

func Desaturate(args []value.Value, pos token.Position) (value.Value, error) {
	return adjustSaturation(args, pos, "desaturate", -1)
}

func adjustSaturation(args []value.Value, pos token.Position, fname string, sign float64) (value.Value, error) {
	c, err := colorArg(args, 0, fname, pos)
	if err != nil {
		return nil, err
	}
	amt, err := percentArg(args, 1, fname, pos)
	if err != nil {
		return nil, err
	}
	h, s, l := rgbToHSL(c)
	s = clampF(s+sign*amt/100, 0, 1)
	r, g, b := hslToRGB(h, s, l)
	return &value.Color{R: r, G: g, B: b, A: c.A}, nil
}

func Grayscale(args []value.Value, pos token.Position) (value.Value, error) {
	c, err := colorArg(args, 0, "grayscale", pos)
	if err != nil {
		return nil, err
	}
	h, _, l := rgbToHSL(c)
	r, g, b := hslToRGB(h, 0, l)
	return &value.Color{R: r, G: g, B: b, A: c.A}, nil
}
