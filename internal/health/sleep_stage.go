package health

import "strings"

// Canonical sleep stage names as reported by device exports (English).
const (
	StageCore   = "Core"
	StageDeep   = "Deep"
	StageREM    = "REM"
	StageAwake  = "Awake"
	StageInBed  = "In Bed"
	StageAsleep = "Asleep"
)

// stageMap maps lowercased localized stage names from device exports to their
// canonical English equivalents. Covers: English, German, French, Spanish,
// Italian, Portuguese, Dutch, Japanese, Chinese (Simplified & Traditional),
// Korean.
var stageMap = map[string]string{
	// English
	"core":   StageCore,
	"deep":   StageDeep,
	"rem":    StageREM,
	"awake":  StageAwake,
	"in bed": StageInBed,
	"asleep": StageAsleep,

	// German
	"kern":    StageCore,
	"tief":    StageDeep,
	"wach":    StageAwake,
	"im bett": StageInBed,

	// French
	"paradoxal": StageREM,
	"profond":   StageDeep,
	"léger":     StageCore,
	"leger":     StageCore,
	"éveillé":   StageAwake,
	"eveille":   StageAwake,
	"au lit":    StageInBed,
	"endormi":   StageAsleep,

	// Spanish (principal also covers Portuguese)
	"profundo":   StageDeep,
	"principal":  StageCore,
	"despierto":  StageAwake,
	"despierta":  StageAwake,
	"en la cama": StageInBed,
	"dormido":    StageAsleep,
	"dormida":    StageAsleep,

	// Italian
	"profondo":     StageDeep,
	"essenziale":   StageCore,
	"sveglio":      StageAwake,
	"sveglia":      StageAwake,
	"a letto":      StageInBed,
	"addormentato": StageAsleep,

	// Portuguese (principal already covered by Spanish, kern by German)
	"sono profundo": StageDeep,
	"acordado":      StageAwake,
	"acordada":      StageAwake,
	"na cama":       StageInBed,
	"dormindo":      StageAsleep,

	// Dutch (kern already covered by German, in bed by English)
	"diep":    StageDeep,
	"wakker":  StageAwake,
	"slapend": StageAsleep,

	// Japanese
	"コア":   StageCore,
	"深い":   StageDeep,
	"レム":   StageREM,
	"覚醒":   StageAwake,
	"ベッドで": StageInBed,

	// Chinese (Simplified)
	"核心":   StageCore,
	"深度":   StageDeep,
	"快速眼动": StageREM,
	"清醒":   StageAwake,
	"在床上":  StageInBed,

	// Chinese (Traditional)
	"核心睡眠": StageCore,
	"深層":   StageDeep,
	"快速動眼": StageREM,

	// Korean
	"코어":   StageCore,
	"깊은":   StageDeep,
	"렘":    StageREM,
	"깨어있음": StageAwake,
	"침대에서": StageInBed,
}

// NormalizeStage maps a possibly-localized sleep stage name to its canonical
// form. Returns the original string and false when unrecognized.
func NormalizeStage(raw string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := stageMap[lower]; ok {
		return canonical, true
	}
	return raw, false
}

// asleepStages are the canonical stages that count toward sleep duration.
// "In Bed" and "Awake" segments do not: time in bed awake is not sleep.
var asleepStages = []string{StageCore, StageDeep, StageREM, StageAsleep}

// IsAsleepStage reports whether a canonical stage counts toward sleep
// duration.
func IsAsleepStage(stage string) bool {
	for _, s := range asleepStages {
		if stage == s {
			return true
		}
	}
	return false
}

// AsleepStages returns the canonical stages counting toward sleep duration,
// for use in storage filters.
func AsleepStages() []string {
	out := make([]string, len(asleepStages))
	copy(out, asleepStages)
	return out
}
