package domain

// ViewportClass is the responsive classification of the current viewport.
type ViewportClass int

const (
	Mobile ViewportClass = iota
	Desktop
)

func (c ViewportClass) String() string {
	if c == Desktop {
		return "desktop"
	}
	return "mobile"
}

// Classify maps a viewport width to Mobile or Desktop.
// The threshold itself is Mobile; degenerate widths (zero, negative, NaN) are Mobile too.
func Classify(width, threshold float64) ViewportClass {
	if width > threshold {
		return Desktop
	}
	return Mobile
}
