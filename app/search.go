package app

import (
	"gopwr/domain/power"
)

// powerAtFunc evaluates power for a candidate per-group sample size.
type powerAtFunc func(n int) (float64, error)

// searchSampleSize scans n = 2, 3, ... for at most ceiling candidates and
// returns the first n whose power reaches target. The reported size equals the
// number of candidates tried plus one, so exhausting the scan yields
// ceiling+1 with the last evaluated power.
func searchSampleSize(ceiling int, target float64, powerAt powerAtFunc) (power.SampleSize, error) {
	result := power.SampleSize{Ceiling: ceiling, TargetPower: target}

	tried := 0
	for i := 1; i <= ceiling; i++ {
		n := i + power.MinSearchSize - 1
		p, err := powerAt(n)
		if err != nil {
			return power.SampleSize{}, err
		}
		tried = i
		result.Power = p
		if p >= target {
			break
		}
	}

	result.N = tried + 1
	return result, nil
}
