package health

import "time"

// MetricType identifies one supported health metric.
type MetricType string

const (
	// Device metrics, cumulative over a day.
	TypeStepCount       MetricType = "step_count"
	TypeActiveEnergy    MetricType = "active_energy"
	TypeExerciseMinutes MetricType = "exercise_minutes"

	// Device metrics, discrete readings averaged over a window.
	TypeRestingHeartRate       MetricType = "resting_heart_rate"
	TypeHeartRateVariability   MetricType = "heart_rate_variability"
	TypeBodyMass               MetricType = "body_mass"
	TypeVO2Max                 MetricType = "vo2_max"
	TypeOxygenSaturation       MetricType = "oxygen_saturation"
	TypeBloodPressureSystolic  MetricType = "blood_pressure_systolic"
	TypeBloodPressureDiastolic MetricType = "blood_pressure_diastolic"

	// Sleep gets its own per-night accounting.
	TypeSleepHours MetricType = "sleep_hours"

	// Questionnaire-only metrics. A standing lifestyle condition, not a
	// time-windowed measurement.
	TypeNutritionQuality MetricType = "nutrition_quality"
	TypeSmokingStatus    MetricType = "smoking_status"
	TypeAlcoholUse       MetricType = "alcohol_use"
	TypeStressLevel      MetricType = "stress_level"
)

// AggregationMethod selects how a metric's time series reduces to one value.
type AggregationMethod int

const (
	// Cumulative sums daily totals; days without data count as zero.
	Cumulative AggregationMethod = iota
	// Average averages daily readings; days without data are excluded.
	Average
	// SpecialWindowed is per-night sleep accounting.
	SpecialWindowed
)

func (m AggregationMethod) String() string {
	switch m {
	case Cumulative:
		return "cumulative"
	case Average:
		return "average"
	case SpecialWindowed:
		return "specialWindowed"
	}
	return "unknown"
}

// SourceKind says where an observation came from.
type SourceKind string

const (
	SourceDevice SourceKind = "device"
	SourceManual SourceKind = "manual"
)

// Period is a reporting window. Month and Year are trailing rolling windows
// (31 and 365 calendar days ending today), not calendar boundaries.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Days returns the number of calendar days in the rolling window.
func (p Period) Days() int {
	switch p {
	case PeriodDay:
		return 1
	case PeriodMonth:
		return 31
	case PeriodYear:
		return 365
	}
	return 1
}

// Valid reports whether p is a known reporting period.
func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// Observation is a single measured value. For interval samples (sleep stages)
// End and Stage are set and Value holds the interval duration in hours; for
// point samples they are zero.
type Observation struct {
	Type   MetricType `json:"type"`
	Value  float64    `json:"value"`
	Time   time.Time  `json:"time"`
	End    time.Time  `json:"end,omitzero"`
	Stage  string     `json:"stage,omitempty"`
	Source SourceKind `json:"source"`
}

// ImpactDetail is a derived lifespan-impact estimate for one metric. Minutes
// are always per day, never scaled by the reporting period.
type ImpactDetail struct {
	DailyMinutes float64 `json:"daily_minutes"`
	Favorable    bool    `json:"favorable"`
}

// AggregatedMetric is one metric reduced to a single value for a reporting
// window. Immutable once constructed; a fresh value is built on every fetch.
type AggregatedMetric struct {
	Type       MetricType    `json:"type"`
	Value      float64       `json:"value"`
	Unit       string        `json:"unit"`
	WindowEnd  time.Time     `json:"window_end"`
	ObservedAt time.Time     `json:"observed_at"`
	Source     SourceKind    `json:"source"`
	Impact     *ImpactDetail `json:"impact,omitempty"`
}
