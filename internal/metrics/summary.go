package metrics

import "gonum.org/v1/gonum/stat"

// Summary holds run statistics for one observable series.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes run statistics over a sampled observable series.
func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	s := Summary{
		Mean: stat.Mean(series, nil),
		Min:  series[0],
		Max:  series[0],
	}
	if len(series) > 1 {
		s.StdDev = stat.StdDev(series, nil)
	}
	for _, v := range series[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}
