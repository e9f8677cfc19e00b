package xg

import (
	"errors"
	"math"
)

const (
	DefaultMaxGoals      = 10
	DefaultRollingWindow = 5
	DefaultSeasonLength  = 46
	DefaultTargetPoints  = 80.0
	DefaultFormLength    = 5
)

var (
	// ErrNegativeExpectedGoals is returned for negative or NaN expected goals
	ErrNegativeExpectedGoals = errors.New("expected goals must be a finite non-negative number")
	// ErrInvalidGrid is returned when the scoreline grid has no cells
	ErrInvalidGrid = errors.New("max goals must be at least 1")
)

// Outcome holds win/draw/loss probabilities from one side's point of view
type Outcome struct {
	Win  float64 `json:"win"`
	Draw float64 `json:"draw"`
	Loss float64 `json:"loss"`
}

func checkInputs(xgFor, xgAgainst float64, maxGoals int) error {
	if !validFloat(xgFor) || !validFloat(xgAgainst) {
		return ErrNegativeExpectedGoals
	}
	if maxGoals < 1 {
		return ErrInvalidGrid
	}
	return nil
}

// PoissonPMF returns P(k; lambda) for k = 0..n-1
// Built iteratively so large k never overflows a factorial
func PoissonPMF(lambda float64, n int) []float64 {
	probs := make([]float64, n)
	if n == 0 {
		return probs
	}
	probs[0] = math.Exp(-lambda)
	for k := 1; k < n; k++ {
		probs[k] = probs[k-1] * lambda / float64(k)
	}
	return probs
}

// ScoreMatrix returns the joint probability of every scoreline (h, a) with
// 0 <= h, a < maxGoals, treating both goal counts as independent Poisson variables.
// Rows are goals for, columns goals against
func ScoreMatrix(xgFor, xgAgainst float64, maxGoals int) ([][]float64, error) {
	if err := checkInputs(xgFor, xgAgainst, maxGoals); err != nil {
		return nil, err
	}
	forProbs := PoissonPMF(xgFor, maxGoals)
	againstProbs := PoissonPMF(xgAgainst, maxGoals)

	matrix := make([][]float64, maxGoals)
	for h := 0; h < maxGoals; h++ {
		matrix[h] = make([]float64, maxGoals)
		for a := 0; a < maxGoals; a++ {
			matrix[h][a] = forProbs[h] * againstProbs[a]
		}
	}
	return matrix, nil
}

// OutcomeProbabilities sums the score matrix into win (lower triangle),
// draw (diagonal) and loss (upper triangle). Mass beyond the grid is dropped
func OutcomeProbabilities(xgFor, xgAgainst float64, maxGoals int) (Outcome, error) {
	matrix, err := ScoreMatrix(xgFor, xgAgainst, maxGoals)
	if err != nil {
		return Outcome{}, err
	}
	var o Outcome
	for h := range matrix {
		for a, p := range matrix[h] {
			switch {
			case h > a:
				o.Win += p
			case h == a:
				o.Draw += p
			default:
				o.Loss += p
			}
		}
	}
	return o, nil
}

// ExpectedPoints converts a match's xG pair into the points a side should
// average under the independent Poisson scoreline model: 3*P(win) + P(draw).
// The result is always within [0, 3]
func ExpectedPoints(xgFor, xgAgainst float64, maxGoals int) (float64, error) {
	if err := checkInputs(xgFor, xgAgainst, maxGoals); err != nil {
		return 0, err
	}
	forProbs := PoissonPMF(xgFor, maxGoals)
	againstProbs := PoissonPMF(xgAgainst, maxGoals)

	var win, draw float64
	for h := 0; h < maxGoals; h++ {
		for a := 0; a < maxGoals; a++ {
			joint := forProbs[h] * againstProbs[a]
			if h > a {
				win += joint
			} else if h == a {
				draw += joint
			}
		}
	}
	return 3*win + draw, nil
}
