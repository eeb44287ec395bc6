package metadata

type ImageDimension uint8

const (
	ImageDimension1D ImageDimension = iota
	ImageDimension2D
	ImageDimension3D
)

/** @brief The shape of an image. Only the fields relevant to Dimension are used. */
type ImageKind struct {
	Dimension ImageDimension
	Width     uint32
	Height    uint32
	Depth     uint32
	Level     uint16
}

func ImageKind1D(width uint32, level uint16) ImageKind {
	return ImageKind{Dimension: ImageDimension1D, Width: width, Level: level}
}

func ImageKind2D(width, height uint32, level uint16) ImageKind {
	return ImageKind{Dimension: ImageDimension2D, Width: width, Height: height, Level: level}
}

func ImageKind3D(width, height, depth uint32) ImageKind {
	return ImageKind{Dimension: ImageDimension3D, Width: width, Height: height, Depth: depth}
}

// Size returns the byte size of the RGBA8 pixel data for the image.
func (k ImageKind) Size() uint32 {
	switch k.Dimension {
	case ImageDimension1D:
		return k.Width * 4
	case ImageDimension2D:
		return k.Width * k.Height * 4
	default:
		return k.Width * k.Height * k.Depth * 4
	}
}
