package referral

import "math"

type RewardKind string

const (
	RewardFixed      RewardKind = "fixed"
	RewardPercentage RewardKind = "percentage"
)

// RewardTier is the reward rule snapshotted into a referral at creation
// time, so later tier edits never change an in-flight referral.
type RewardTier struct {
	Name        string
	Kind        RewardKind
	FixedPoints int
	Percent     float64
}

// ReferrerReward computes the referrer's payout in points. Percentage
// tiers need a purchase amount; without one they pay nothing.
func (t RewardTier) ReferrerReward(purchaseAmount *float64) int {
	switch t.Kind {
	case RewardPercentage:
		if purchaseAmount == nil {
			return 0
		}
		return int(math.Floor(*purchaseAmount * t.Percent / 100))
	default:
		return t.FixedPoints
	}
}
