package scoring

// Risk labels derived from the aggregate trust score.
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"
)

// Band boundaries. Each band includes its upper bound: 39 is High,
// 40 and 69 are Medium, 70 is Low.
const (
	riskHighMax   = 39.0
	riskMediumMax = 69.0
)

// RiskLabel maps a trust score in [0,100] to its risk band.
func RiskLabel(trustScore float64) string {
	switch {
	case trustScore <= riskHighMax:
		return RiskHigh
	case trustScore <= riskMediumMax:
		return RiskMedium
	default:
		return RiskLow
	}
}
