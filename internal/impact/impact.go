// Package impact converts an aggregated metric value into a daily
// lifespan-impact estimate, in minutes gained or lost per day.
//
// The estimate is always per day, regardless of which reporting period the
// metric was aggregated under. Scaling a daily impact up to "impact over the
// month" is presentation's job; conflating the two has produced materially
// wrong totals before, so the calculator never sees the period at all.
package impact

import (
	"math"

	"github.com/claude/amped/internal/health"
)

// curve is a piecewise-linear daily-minutes model for one metric: minutes =
// slope * (value - reference), capped at ±cap.
type curve struct {
	reference float64
	slope     float64
	cap       float64
}

// Model constants. References follow common clinical baselines; the smoking
// slope is the widely cited ~11 minutes of life per cigarette.
var curves = map[health.MetricType]curve{
	health.TypeStepCount:       {reference: 5000, slope: 0.004, cap: 40},
	health.TypeActiveEnergy:    {reference: 300, slope: 0.02, cap: 30},
	health.TypeExerciseMinutes: {reference: 20, slope: 0.8, cap: 45},

	health.TypeRestingHeartRate:       {reference: 65, slope: -1.2, cap: 45},
	health.TypeHeartRateVariability:   {reference: 40, slope: 0.5, cap: 25},
	health.TypeVO2Max:                 {reference: 35, slope: 1.5, cap: 60},
	health.TypeOxygenSaturation:       {reference: 96, slope: 4.0, cap: 30},
	health.TypeBloodPressureSystolic:  {reference: 120, slope: -0.9, cap: 50},
	health.TypeBloodPressureDiastolic: {reference: 80, slope: -0.7, cap: 40},

	health.TypeNutritionQuality: {reference: 5, slope: 6.0, cap: 35},
	health.TypeSmokingStatus:    {reference: 0, slope: -11.0, cap: 300},
	health.TypeAlcoholUse:       {reference: 7, slope: -3.0, cap: 60},
	health.TypeStressLevel:      {reference: 5, slope: -4.0, cap: 25},
}

// Optimal nightly sleep; deviation in either direction costs minutes.
const (
	sleepOptimalHr      = 7.5
	sleepMinutesPerHour = 15.0
	sleepCap            = 60.0
)

// Calculator is a pure value-to-impact mapping. It holds no state; the
// struct exists so callers inject it like any other collaborator.
type Calculator struct{}

// NewCalculator returns an impact calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// For returns the daily impact estimate for one aggregated metric, or nil
// when no model exists for the metric type.
func (c *Calculator) For(m health.AggregatedMetric, p *health.Profile) *health.ImpactDetail {
	var minutes float64
	switch m.Type {
	case health.TypeSleepHours:
		minutes = clamp(-sleepMinutesPerHour*math.Abs(m.Value-sleepOptimalHr), sleepCap)
	case health.TypeBodyMass:
		minutes = bodyMassMinutes(m.Value, p)
	default:
		cv, ok := curves[m.Type]
		if !ok {
			return nil
		}
		ref := cv.reference + referenceShift(m.Type, p)
		minutes = clamp(cv.slope*(m.Value-ref), cv.cap)
	}

	minutes *= ageFactor(p)
	return &health.ImpactDetail{
		DailyMinutes: round1(minutes),
		Favorable:    minutes >= 0,
	}
}

// bodyMassMinutes scores weight through BMI when a height is known. Inside
// the healthy band the impact is zero; outside it costs minutes per BMI unit
// of deviation.
func bodyMassMinutes(weightKg float64, p *health.Profile) float64 {
	if p == nil || p.HeightCm <= 0 {
		return 0
	}
	heightM := p.HeightCm / 100
	bmi := weightKg / (heightM * heightM)
	switch {
	case bmi > 25:
		return clamp(-3.0*(bmi-25), 45)
	case bmi < 18.5:
		return clamp(-4.0*(18.5-bmi), 45)
	default:
		return 0
	}
}

// referenceShift adjusts a curve's anchor for profile sex where population
// baselines differ.
func referenceShift(t health.MetricType, p *health.Profile) float64 {
	if p == nil || p.Sex != health.SexFemale {
		return 0
	}
	switch t {
	case health.TypeRestingHeartRate:
		return 3
	case health.TypeVO2Max:
		return -5
	case health.TypeHeartRateVariability:
		return -3
	}
	return 0
}

// ageFactor scales magnitude modestly with age band: the same deviation
// matters more later in life.
func ageFactor(p *health.Profile) float64 {
	if p == nil {
		return 1.0
	}
	switch {
	case p.Age >= 60:
		return 1.25
	case p.Age >= 40:
		return 1.1
	default:
		return 1.0
	}
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
