package engine

import "math"

// Observation is one (temperature, usage) pair used to fit the baseline model
type Observation struct {
	Temp float64 // Degrees F
	KWh  float64
}

// LinearModel holds a fitted or fixed baseline-usage model: kwh = Intercept + Slope*temp.
// Refitting produces a new value, an existing model is never mutated.
type LinearModel struct {
	Intercept float64 `yaml:"intercept"`
	Slope     float64 `yaml:"slope"`
}

// Bounds clamps baseline predictions to a physically plausible usage range
type Bounds struct {
	MinKWh float64
	MaxKWh float64
}

// Fit computes an ordinary least squares fit of usage against temperature.
// Input order is irrelevant. Zero temperature variance (which includes empty
// and single-observation inputs) cannot be fit and returns a DegenerateInputError
// instead of a model full of NaNs.
func Fit(obs []Observation) (LinearModel, error) {
	n := float64(len(obs))

	var sumX, sumY, sumXY, sumXX float64
	for _, o := range obs {
		sumX += o.Temp
		sumY += o.KWh
		sumXY += o.Temp * o.KWh
		sumXX += o.Temp * o.Temp
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return LinearModel{}, &DegenerateInputError{Observations: len(obs)}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	return LinearModel{Intercept: intercept, Slope: slope}, nil
}

// Predict returns the expected baseline usage at the given temperature,
// clamped into bounds. Extreme temperatures extrapolate to implausible
// values, so the clamp is a safety net rather than a model correction.
func (m LinearModel) Predict(temp float64, b Bounds) (float64, error) {
	if math.IsNaN(temp) || math.IsInf(temp, 0) {
		return 0, &ValidationError{Field: "temperature", Value: temp, Constraint: "must be finite"}
	}

	kwh := m.Intercept + m.Slope*temp
	if kwh < b.MinKWh {
		kwh = b.MinKWh
	}
	if kwh > b.MaxKWh {
		kwh = b.MaxKWh
	}

	return kwh, nil
}
