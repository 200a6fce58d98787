package evo

import "math"

// Diversity thresholds and the hard ceiling on the adapted rate. Tuned
// constants, preserved verbatim.
const (
	highDiversity   = 0.4
	lowDiversity    = 0.2
	mutationCeiling = 0.3
)

// adaptRule maps a diversity band to a mutation rate. Rules are checked in
// order; no rule matching means the initial rate applies unchanged.
type adaptRule struct {
	applies func(diversity float64) bool
	rate    func(initial float64) float64
}

var adaptRules = []adaptRule{
	// High diversity: reduce exploration pressure.
	{
		applies: func(d float64) bool { return d > highDiversity },
		rate:    func(m0 float64) float64 { return m0 * 0.7 },
	},
	// Low diversity: raise mutation to escape convergence, capped.
	{
		applies: func(d float64) bool { return d < lowDiversity },
		rate:    func(m0 float64) float64 { return math.Min(mutationCeiling, m0*1.5) },
	},
}

// Controller holds the mutation rate adapted once per generation from the
// measured population diversity. No smoothing or hysteresis: the rate is a
// pure function of the latest diversity value.
type Controller struct {
	initial float64
	current float64
}

func NewController(initial float64) *Controller {
	return &Controller{initial: initial, current: initial}
}

func (c *Controller) Rate() float64 {
	return c.current
}

func (c *Controller) Adapt(diversity float64) {
	for _, rule := range adaptRules {
		if rule.applies(diversity) {
			c.current = rule.rate(c.initial)
			return
		}
	}
	c.current = c.initial
}
