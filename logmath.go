package fsm

import "math"

// LogZero is the log-domain additive identity: the weight of an impossible
// alternative, and the log-sum of an empty set of weights.
var LogZero = math.Inf(-1)

// LogAdd returns log(exp(a) + exp(b)) without leaving the log domain.
// The computation is shifted by the larger operand so it stays stable for
// operands far below zero, and it is exact when either operand is LogZero.
func LogAdd(a, b float64) float64 {
	if a == LogZero {
		return b
	}
	if b == LogZero {
		return a
	}
	if a < b {
		a, b = b, a
	}
	return a + math.Log1p(math.Exp(b-a))
}
