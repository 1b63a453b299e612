package graph

// RadiusScale maps member counts linearly from [0, max] onto [min, max radius].
type RadiusScale struct {
	maxMembers int
	lo, hi     float64
}

// NewRadiusScale builds a scale for the given largest member count. Zero or
// inverted radius bounds fall back to the defaults.
func NewRadiusScale(maxMembers int, minRadius, maxRadius float64) RadiusScale {
	if minRadius <= 0 {
		minRadius = DefaultMinRadius
	}
	if maxRadius < minRadius {
		maxRadius = minRadius
	}
	return RadiusScale{maxMembers: maxMembers, lo: minRadius, hi: maxRadius}
}

// Radius returns the node radius for a member count. Counts past the domain
// are clamped so the mapping stays monotone.
func (s RadiusScale) Radius(members int) float64 {
	if s.maxMembers <= 0 || members <= 0 {
		return s.lo
	}
	if members >= s.maxMembers {
		return s.hi
	}
	return s.lo + (s.hi-s.lo)*float64(members)/float64(s.maxMembers)
}
