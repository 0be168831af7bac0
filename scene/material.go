package scene

// An Attenuator models the acoustic response of a surface to a single
// specular bounce. Keeping this behind an interface lets future material
// models (per-band spectra, transmittance) plug in without touching the
// path tracer or the accumulator.
type Attenuator interface {
	// Attenuate returns the amplitude that survives one reflection off
	// the surface.
	Attenuate(amplitude float64) float64
}

// Material is the minimal frequency-independent material model: a scalar
// amplitude reflection coefficient in [0, 1].
type Material struct {
	Reflectivity float64
}

func (m Material) Attenuate(amplitude float64) float64 {
	return amplitude * m.Reflectivity
}
