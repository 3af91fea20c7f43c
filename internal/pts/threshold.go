package pts

import "pastry/internal/symbolic"

// AnalyzeThresholdAndPeriod computes the global threshold and the positive
// and negative periods the RMC abstraction needs to cover every guard in
// the PTS, mirroring analyze_threshold_and_period_from_pts: with no
// guard depending on the counter the whole system is eventually guard-free,
// so the threshold just has to clear the initial value; otherwise fold
// every non-trivial guard's own (threshold, period+, period-) by max/lcm.
func AnalyzeThresholdAndPeriod(p *PTS) (threshold, periodPos, periodNeg int64) {
	if len(p.NonTrivial) == 0 {
		t := p.InitVal
		if t < 0 {
			t = -t
		}
		return t, 1, 1
	}

	maxT := p.InitVal
	if maxT < 0 {
		maxT = -maxT
	}
	var posPeriods, negPeriods []int64
	for _, g := range p.NonTrivial {
		t, pp, pn := symbolic.ThresholdPeriodGuard(g, p.VarName)
		if t > maxT {
			maxT = t
		}
		posPeriods = append(posPeriods, pp)
		negPeriods = append(negPeriods, pn)
	}
	return maxT, symbolic.LCMAll(posPeriods), symbolic.LCMAll(negPeriods)
}
