// Package imaging provides the pixel-level building blocks of the compressor:
// the RGB color value, the Canvas pixel field, and the Palette with its
// nearest-neighbor index.
package imaging

import "fmt"

// RGB is a 24-bit color with a transparency marker. The marker is a flag on
// the pixel, not a fourth channel: Equal, Less, and Key operate on the three
// channels only.
type RGB struct {
	R, G, B     uint8
	Transparent bool
}

// TransparentRGB is the sentinel value a blank canvas is filled with.
var TransparentRGB = RGB{Transparent: true}

// Equal reports whether two colors have the same channel values, ignoring
// the transparency flag.
func (c RGB) Equal(o RGB) bool {
	return c.R == o.R && c.G == o.G && c.B == o.B
}

// Less orders colors lexicographically by (r, g, b).
func (c RGB) Less(o RGB) bool {
	if c.R != o.R {
		return c.R < o.R
	}
	if c.G != o.G {
		return c.G < o.G
	}
	return c.B < o.B
}

// Key returns the canonical flagless value, suitable as a map key that hashes
// over the channels only.
func (c RGB) Key() RGB {
	c.Transparent = false
	return c
}

// Dim returns the channel value along the given axis (0=R, 1=G, 2=B).
func (c RGB) Dim(axis int) int {
	switch axis {
	case 0:
		return int(c.R)
	case 1:
		return int(c.G)
	case 2:
		return int(c.B)
	}
	panic(fmt.Sprintf("imaging: rgb axis out of range: %d", axis))
}

// Average returns the channel-wise integer mean of two colors.
func (c RGB) Average(o RGB) RGB {
	return RGB{
		R: uint8((uint16(c.R) + uint16(o.R)) / 2),
		G: uint8((uint16(c.G) + uint16(o.G)) / 2),
		B: uint8((uint16(c.B) + uint16(o.B)) / 2),
	}
}

// DistanceSq returns the squared Euclidean distance between two colors.
func (c RGB) DistanceSq(o RGB) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// Luma returns the Y component in YCbCr (BT.601), truncated to 8 bits.
func (c RGB) Luma() uint8 {
	return uint8(0.299*float32(c.R) + 0.587*float32(c.G) + 0.114*float32(c.B))
}

// LumaDistanceSq returns the luma-weighted squared channel distance between
// two colors, truncated to an integer.
func (c RGB) LumaDistanceSq(o RGB) int {
	dr := float32(int(c.R) - int(o.R))
	dg := float32(int(c.G) - int(o.G))
	db := float32(int(c.B) - int(o.B))
	return int(0.299*dr*dr + 0.587*dg*dg + 0.114*db*db)
}
