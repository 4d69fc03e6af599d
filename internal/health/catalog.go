package health

import "fmt"

// Range is an inclusive valid-value interval. Values outside it are dropped,
// never clamped.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// MetricDef is the static definition of one metric type.
type MetricDef struct {
	Type         MetricType        `json:"type"`
	Method       AggregationMethod `json:"-"`
	Unit         string            `json:"unit"`
	ValidRange   Range             `json:"valid_range"`
	Capability   SourceKind        `json:"capability"`
	// AllowsManual marks device metrics the questionnaire can also collect
	// (merge precedence applies when both sources have a value).
	AllowsManual bool `json:"allows_manual"`
}

// catalog is the process-wide metric registry, fixed at init.
var catalog = map[MetricType]MetricDef{
	TypeStepCount:       {Type: TypeStepCount, Method: Cumulative, Unit: "count", ValidRange: Range{0, 200000}, Capability: SourceDevice},
	TypeActiveEnergy:    {Type: TypeActiveEnergy, Method: Cumulative, Unit: "kcal", ValidRange: Range{0, 20000}, Capability: SourceDevice},
	TypeExerciseMinutes: {Type: TypeExerciseMinutes, Method: Cumulative, Unit: "min", ValidRange: Range{0, 1440}, Capability: SourceDevice},

	TypeRestingHeartRate:       {Type: TypeRestingHeartRate, Method: Average, Unit: "bpm", ValidRange: Range{25, 150}, Capability: SourceDevice},
	TypeHeartRateVariability:   {Type: TypeHeartRateVariability, Method: Average, Unit: "ms", ValidRange: Range{1, 300}, Capability: SourceDevice},
	TypeBodyMass:               {Type: TypeBodyMass, Method: Average, Unit: "kg", ValidRange: Range{20, 350}, Capability: SourceDevice, AllowsManual: true},
	TypeVO2Max:                 {Type: TypeVO2Max, Method: Average, Unit: "mL/kg/min", ValidRange: Range{10, 90}, Capability: SourceDevice},
	TypeOxygenSaturation:       {Type: TypeOxygenSaturation, Method: Average, Unit: "%", ValidRange: Range{70, 100}, Capability: SourceDevice},
	TypeBloodPressureSystolic:  {Type: TypeBloodPressureSystolic, Method: Average, Unit: "mmHg", ValidRange: Range{60, 260}, Capability: SourceDevice, AllowsManual: true},
	TypeBloodPressureDiastolic: {Type: TypeBloodPressureDiastolic, Method: Average, Unit: "mmHg", ValidRange: Range{30, 160}, Capability: SourceDevice, AllowsManual: true},

	TypeSleepHours: {Type: TypeSleepHours, Method: SpecialWindowed, Unit: "hr", ValidRange: Range{0, 24}, Capability: SourceDevice},

	TypeNutritionQuality: {Type: TypeNutritionQuality, Method: Average, Unit: "score", ValidRange: Range{0, 10}, Capability: SourceManual},
	TypeSmokingStatus:    {Type: TypeSmokingStatus, Method: Average, Unit: "cig/day", ValidRange: Range{0, 100}, Capability: SourceManual},
	TypeAlcoholUse:       {Type: TypeAlcoholUse, Method: Average, Unit: "drinks/wk", ValidRange: Range{0, 100}, Capability: SourceManual},
	TypeStressLevel:      {Type: TypeStressLevel, Method: Average, Unit: "score", ValidRange: Range{0, 10}, Capability: SourceManual},
}

// Lookup returns the definition for a metric type, panicking on an unknown
// type: that is a catalog/caller mismatch, not a runtime data condition.
func Lookup(t MetricType) MetricDef {
	def, ok := catalog[t]
	if !ok {
		panic(fmt.Sprintf("health: unknown metric type %q", t))
	}
	return def
}

// Known reports whether t is a registered metric type.
func Known(t MetricType) bool {
	_, ok := catalog[t]
	return ok
}

// MethodFor returns the aggregation method for a metric type.
func MethodFor(t MetricType) AggregationMethod {
	return Lookup(t).Method
}

// IsValid reports whether v is inside the metric's valid range.
func IsValid(t MetricType, v float64) bool {
	return Lookup(t).ValidRange.Contains(v)
}

// UnitFor returns the display unit for a metric type.
func UnitFor(t MetricType) string {
	return Lookup(t).Unit
}

// allTypes fixes a deterministic iteration order for fan-out and listings.
var allTypes = []MetricType{
	TypeStepCount, TypeActiveEnergy, TypeExerciseMinutes,
	TypeRestingHeartRate, TypeHeartRateVariability, TypeBodyMass,
	TypeVO2Max, TypeOxygenSaturation,
	TypeBloodPressureSystolic, TypeBloodPressureDiastolic,
	TypeSleepHours,
	TypeNutritionQuality, TypeSmokingStatus, TypeAlcoholUse, TypeStressLevel,
}

// AllTypes returns every registered metric type in a stable order.
func AllTypes() []MetricType {
	out := make([]MetricType, len(allTypes))
	copy(out, allTypes)
	return out
}

// DeviceTypes returns the device-capable metric types.
func DeviceTypes() []MetricType {
	var out []MetricType
	for _, t := range allTypes {
		if catalog[t].Capability == SourceDevice {
			out = append(out, t)
		}
	}
	return out
}

// ManualTypes returns the questionnaire-only metric types.
func ManualTypes() []MetricType {
	var out []MetricType
	for _, t := range allTypes {
		if catalog[t].Capability == SourceManual {
			out = append(out, t)
		}
	}
	return out
}

// Catalog returns every metric definition in a stable order.
func Catalog() []MetricDef {
	out := make([]MetricDef, 0, len(allTypes))
	for _, t := range allTypes {
		out = append(out, catalog[t])
	}
	return out
}
