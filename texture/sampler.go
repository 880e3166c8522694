package texture

import (
	"fmt"

	"github.com/richinsley/gotriangle/graphics"
)

// Sampler holds the addressing and filtering state applied at load time.
type Sampler struct {
	WrapS, WrapT graphics.Wrap
	MinFilter    graphics.Filter
	MagFilter    graphics.Filter
	// FlipY stores the image bottom row first.
	FlipY bool
}

// DefaultSampler repeats on both axes, minifies with nearest and magnifies
// with linear filtering.
var DefaultSampler = Sampler{
	WrapS:     graphics.Repeat,
	WrapT:     graphics.Repeat,
	MinFilter: graphics.Nearest,
	MagFilter: graphics.Linear,
}

// ParseSampler builds a Sampler from configuration names. Empty names take
// the DefaultSampler value.
func ParseSampler(wrap, minFilter, magFilter string, flipY bool) (Sampler, error) {
	s := DefaultSampler
	s.FlipY = flipY
	if wrap != "" {
		w, err := getWrapMode(wrap)
		if err != nil {
			return Sampler{}, err
		}
		s.WrapS, s.WrapT = w, w
	}
	if minFilter != "" {
		f, err := getFilterMode(minFilter, true)
		if err != nil {
			return Sampler{}, err
		}
		s.MinFilter = f
	}
	if magFilter != "" {
		f, err := getFilterMode(magFilter, false)
		if err != nil {
			return Sampler{}, err
		}
		s.MagFilter = f
	}
	return s, nil
}

func getWrapMode(wrap string) (graphics.Wrap, error) {
	switch wrap {
	case "repeat":
		return graphics.Repeat, nil
	case "clamp":
		return graphics.ClampToEdge, nil
	case "mirror":
		return graphics.MirroredRepeat, nil
	default:
		return 0, fmt.Errorf("unknown wrap mode %q", wrap)
	}
}

// getFilterMode maps a filter name. "mipmap" selects trilinear filtering
// when minifying; magnification has no mipmap variant and falls back to
// linear.
func getFilterMode(filter string, minify bool) (graphics.Filter, error) {
	switch filter {
	case "nearest":
		return graphics.Nearest, nil
	case "linear":
		return graphics.Linear, nil
	case "mipmap":
		if minify {
			return graphics.LinearMipmapLinear, nil
		}
		return graphics.Linear, nil
	default:
		return 0, fmt.Errorf("unknown filter %q", filter)
	}
}
