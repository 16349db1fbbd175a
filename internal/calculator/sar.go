package calculator

import (
	"errors"

	talib "github.com/markcheno/go-talib"
)

// sarLookback is the number of leading bars TA-Lib's SAR leaves undefined.
const sarLookback = 1

// ParabolicSAR computes Wilder's stop-and-reverse over the given high and
// low inputs. The first position is a gap; the initial trend is short when
// the second bar shows directional movement down, otherwise long.
func ParabolicSAR(high, low []float64, step, maxStep float64) ([]*float64, error) {
	if len(high) != len(low) {
		return nil, errors.New("high and low must have equal length")
	}
	if step <= 0 || maxStep < step {
		return nil, errors.New("acceleration must be positive and not exceed maximum")
	}
	if len(high) <= sarLookback {
		return gaps(len(high)), nil
	}
	return lift(talib.Sar(high, low, step, maxStep), sarLookback), nil
}
