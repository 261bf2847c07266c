// Package assist derives a full mastering parameter set from analysis
// metrics, together with a human-readable decision log.
package assist

import (
	"fmt"
	"math"

	"github.com/soundpress/masterchain/internal/analysis"
	"github.com/soundpress/masterchain/internal/dsp"
	"github.com/soundpress/masterchain/internal/params"
)

// Heuristic tuning constants. These thresholds control how the assistant
// maps measurements onto chain parameters.
const (
	// Loudness estimation and targeting
	lufsOffset       = 0.6   // dB subtracted from the RMS log measure
	targetLUFS       = -10.0 // default mastering target
	loudCeilingLUFS  = -12.0 // above this, keep the source's own loudness
	quietFloorLUFS   = -24.0 // below this, back off to a gentler target
	quietTargetLUFS  = -13.0 // gentler target for very quiet sources
	gainDeadbandDB   = 0.5   // below this gain need, leave level alone
	linearGainMaxDB  = 4.0   // gain beyond this comes from saturation
	masterGainMax    = 0.8   // linear gain-over-unity cap
	loudCeilingDB    = -0.3  // limiter ceiling when pushing loudness
	softClipPerDB    = 0.08  // saturator drive per dB of gain shortfall
	softClipMax      = 0.4   // drive cap before the crest bonus
	softClipCrest    = 0.1   // extra drive for peaky material
	softClipIdle     = 0.05  // gentle shaping when no gain is needed
	crestPeaky       = 4.0   // crest factor above which material is peaky
	glueGainDB       = 3.0   // gain need above which glue compression engages
	glueThresholdDB  = -16.0
	glueRatio        = 2.0
	glueAttackSec    = 0.01
	glueReleaseSec   = 0.15

	// Tonal balance correction
	balanceSlope   = -12.0 // dB of correction per unit of balance error
	eqLimitDB      = 3.0   // correction cap through 8 kHz
	eqLimitHighDB  = 4.0   // correction cap above 8 kHz
	eqHighBandHz   = 8000.0
	eqRoundDB      = 0.1

	// Stereo field
	widthDefault  = 0.15
	widthNarrow   = 0.05 // for mid-heavy material
	midHeavyRatio = 1.5  // midEnergy vs lowEnergy ratio triggering narrow width
	bassHeavy     = 0.6  // lowEnergy above this gets side-bass reinforcement
	bassLight     = 0.4  // lowEnergy below this gets a punch boost
	sideBassDB    = 2.0
	punchBoostDB  = 3.0

	// Density
	fluxStatic    = 12.0 // spectral flux below this reads as static material
	satStatic     = 0.04
	bodyStatic    = 1.5
	satDefault    = 0.01
)

// targetBalance is the desired normalized per-band energy, descending from
// the lowest correction band to the highest.
var targetBalance = []float64{
	0.95, 0.90, 0.85, 0.80,
	0.75, 0.70, 0.65, 0.60,
	0.55, 0.50, 0.45, 0.40,
	0.35, 0.30,
}

// Recommend maps one analysis result onto a full parameter set. It is a pure
// function: the same result always yields the same settings and the same
// decision log, in the same order.
func Recommend(res analysis.Result) (params.ParameterSet, []string) {
	set := params.Manual()
	var logLines []string
	note := func(format string, args ...interface{}) {
		logLines = append(logLines, fmt.Sprintf(format, args...))
	}

	estimated := estimateLoudness(res.RMS)
	note("estimated loudness %.1f LUFS (rms %.4f)", estimated, res.RMS)

	tuneBalance(&set, res, note)
	tuneStereo(&set, res, note)
	tuneDensity(&set, res, note)
	tuneLoudness(&set, res, estimated, note)

	return set, logLines
}

// estimateLoudness is a rms-based loudness proxy, not a gated or weighted
// measure.
func estimateLoudness(rms float64) float64 {
	if rms <= 0 {
		return math.Inf(-1)
	}
	return 20*math.Log10(rms) - lufsOffset
}

// tuneBalance corrects each band toward the target energy curve, capped and
// rounded to a tasteful step.
func tuneBalance(set *params.ParameterSet, res analysis.Result, note func(string, ...interface{})) {
	for i := range set.EQ {
		actual := 0.0
		if i < len(res.Balance) {
			actual = res.Balance[i]
		}
		limit := eqLimitDB
		if set.EQ[i].Frequency > eqHighBandHz {
			limit = eqLimitHighDB
		}
		gain := (actual - targetBalance[i]) * balanceSlope
		if gain > limit {
			gain = limit
		} else if gain < -limit {
			gain = -limit
		}
		set.EQ[i].Gain = math.Round(gain/eqRoundDB) * eqRoundDB
	}
	note("balance correction applied across %d bands", len(set.EQ))
}

// tuneStereo sets width and bass placement from the energy distribution.
func tuneStereo(set *params.ParameterSet, res analysis.Result, note func(string, ...interface{})) {
	set.StereoWidth = widthDefault
	if res.MidEnergy > res.LowEnergy*midHeavyRatio {
		set.StereoWidth = widthNarrow
		note("mid-heavy material, narrowing width to %.2f", widthNarrow)
	}
	if res.LowEnergy > bassHeavy {
		set.StereoBass = sideBassDB
		note("bass-heavy material, reinforcing side bass by %.1f dB", sideBassDB)
	}
	if res.LowEnergy < bassLight {
		set.DynamicBass = punchBoostDB
		note("light low end, boosting punch by %.1f dB", punchBoostDB)
	}
}

// tuneDensity decides between warming up static material and staying out of
// the way of busy material.
func tuneDensity(set *params.ParameterSet, res analysis.Result, note func(string, ...interface{})) {
	if res.SpectralFlux < fluxStatic {
		set.Saturation = satStatic
		set.Body = bodyStatic
		note("static material (flux %.1f), adding warmth", res.SpectralFlux)
		return
	}
	set.Saturation = satDefault
	set.Body = 0
}

// tuneLoudness splits the gain needed to reach target between clean linear
// gain and saturated drive, engaging glue compression for large pushes.
func tuneLoudness(set *params.ParameterSet, res analysis.Result, estimated float64, note func(string, ...interface{})) {
	target := targetLUFS
	switch {
	case estimated > loudCeilingLUFS:
		target = estimated
		note("source already loud, holding at %.1f LUFS", target)
	case estimated < quietFloorLUFS:
		target = quietTargetLUFS
		note("very quiet source, easing target to %.1f LUFS", target)
	}

	gainNeeded := target - estimated
	if gainNeeded <= gainDeadbandDB {
		set.MasterGain = 0
		set.SoftClip = softClipIdle
		note("level within reach of target, gentle ceiling only")
		return
	}

	linearDB := math.Min(gainNeeded, linearGainMaxDB)
	saturatorDB := math.Max(0, gainNeeded-linearDB)
	set.MasterGain = dsp.Clamp(math.Pow(10, linearDB/20)-1, 0, masterGainMax)
	set.Ceiling = loudCeilingDB
	set.SoftClip = dsp.Clamp(saturatorDB*softClipPerDB, 0, softClipMax)
	note("pushing %.1f dB: %.1f dB clean, %.1f dB saturated", gainNeeded, linearDB, saturatorDB)

	if res.CrestFactor > crestPeaky {
		set.SoftClip += softClipCrest
		note("peaky material (crest %.1f), extra clip drive", res.CrestFactor)
	}
	if gainNeeded > glueGainDB {
		set.Compressor = params.CompressorParams{
			Threshold: glueThresholdDB,
			Ratio:     glueRatio,
			Attack:    glueAttackSec,
			Release:   glueReleaseSec,
		}
		note("large push, engaging glue compression %.0f:1 at %.0f dB", glueRatio, glueThresholdDB)
	}
}
