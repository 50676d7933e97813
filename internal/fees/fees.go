// Package fees computes platform fees on amounts expressed in currency minor
// units, with the fee rate in basis points. All arithmetic is integral;
// rounding is half-up to the minor unit.
package fees

// Compute returns (platformFee, netAmount) for amount at feeBPS basis points.
// Rounding of the fee is half-up, so the sum of per-milestone nets plus fees
// can undershoot or overshoot the fee on the contract total by at most one
// minor unit per milestone. That slack is accepted and never trued up against
// a final milestone.
func Compute(amount int64, feeBPS int) (fee, net int64) {
	if amount <= 0 || feeBPS <= 0 {
		return 0, amount
	}
	fee = (amount*int64(feeBPS) + 5000) / 10000
	return fee, amount - fee
}
