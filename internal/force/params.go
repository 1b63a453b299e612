package force

// Params holds the force and cooling constants of a simulation.
type Params struct {
	// Charge is the n-body strength; negative values repel.
	Charge float64
	// LinkDistance is the rest length of an edge with similarity 0.
	// An edge rests at LinkDistance * (1 - similarity).
	LinkDistance float64
	// LinkStrengthScale multiplies similarity into spring stiffness.
	LinkStrengthScale float64
	// CollidePadding is added to the summed radii of two nodes.
	CollidePadding  float64
	CollideStrength float64
	CenterStrength  float64
	VelocityDecay   float64

	AlphaDecay      float64
	AlphaMin        float64
	DragAlphaTarget float64

	// Width and Height are the nominal layout dimensions; the layout is
	// centered on their midpoint.
	Width, Height float64
}

// DefaultParams returns the reference constants.
func DefaultParams() Params {
	return Params{
		Charge:            -200,
		LinkDistance:      150,
		LinkStrengthScale: 0.5,
		CollidePadding:    4,
		CollideStrength:   1,
		CenterStrength:    0.05,
		VelocityDecay:     0.4,
		AlphaDecay:        0.02,
		AlphaMin:          0.001,
		DragAlphaTarget:   0.3,
		Width:             900,
		Height:            600,
	}
}
