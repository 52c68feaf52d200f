package ambient

// Segment boundaries of the intensity curve.
const (
	fadeInEnd = 0.25
	holdEnd   = 0.50
)

// Intensity maps animation progress to a fractional intensity: fade in over
// [0, 0.25), hold over [0.25, 0.5), fade out over [0.5, 1]. The opacity
// fraction is eased in and out before being scaled by target.
func Intensity(progress, target float64) float64 {
	if progress <= 0 || progress >= 1 {
		return 0
	}
	var f float64
	switch {
	case progress < fadeInEnd:
		f = progress / fadeInEnd
	case progress < holdEnd:
		f = 1
	default:
		f = 1 - (progress-holdEnd)/(1-holdEnd)
	}
	return easeInOut(f) * target
}

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}
