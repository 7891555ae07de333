package scoring

const (
	lowRiskInclusionFloor    = 80
	mediumRiskInclusionFloor = 60
)

// RiskLevel combines a credit tier and inclusion score. Inclusion bounds are
// exclusive: (High, 80) is still High risk.
func RiskLevel(credit Tier, inclusion int) Tier {
	switch {
	case credit == TierHigh && inclusion > lowRiskInclusionFloor:
		return TierLow
	case credit == TierMedium && inclusion > mediumRiskInclusionFloor:
		return TierMedium
	default:
		return TierHigh
	}
}
