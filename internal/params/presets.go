package params

// Preset is a named, immutable library entry. Applying a preset replaces the
// live parameter set wholesale with a deep copy; library entries never share
// mutable sub-objects with the live chain.
type Preset struct {
	Name        string
	Description string
	Settings    ParameterSet
}

// Apply returns an independent copy of the preset's settings.
func (p Preset) Apply() ParameterSet {
	return p.Settings.Clone()
}

// Library returns the built-in preset library. The first entry is always
// "Manual" (all-zero/unity defaults).
func Library() []Preset {
	manual := Manual()

	warm := Manual()
	warm.Saturation = 0.06
	warm.Body = 2.0
	warm.Compressor = CompressorParams{Threshold: -18, Ratio: 2.5, Attack: 0.01, Release: 0.2}
	warm.MasterGain = 0.12
	warm.Ceiling = -0.3
	warm.SoftClip = 0.1

	air := Manual()
	air.Air = 4.0
	air.StereoWidth = 0.25
	air.Reverb = ReverbParams{Mix: 0.08, Decay: 2.4}
	air.Ceiling = -0.3
	air.SoftClip = 0.05

	club := Manual()
	club.DynamicBass = 3.5
	club.StereoBass = 2.0
	club.Compressor = CompressorParams{Threshold: -14, Ratio: 3.0, Attack: 0.005, Release: 0.12}
	club.MasterGain = 0.2
	club.Ceiling = -0.2
	club.SoftClip = 0.2

	return []Preset{
		{Name: "Manual", Description: "Flat starting point, no processing applied", Settings: manual},
		{Name: "Warm Glue", Description: "Gentle saturation and slow compression for cohesion", Settings: warm},
		{Name: "Open Air", Description: "High-shelf lift, width and a touch of ambience", Settings: air},
		{Name: "Club Low End", Description: "Punchy low end with firm dynamics", Settings: club},
	}
}

// FindPreset returns the library preset with the given name, or false.
func FindPreset(name string) (Preset, bool) {
	for _, p := range Library() {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
