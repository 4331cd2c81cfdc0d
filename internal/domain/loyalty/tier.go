package loyalty

type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Thresholds are inclusive lower bounds; the highest matching tier wins.
var tierThresholds = []struct {
	min  int
	tier Tier
}{
	{10000, TierPlatinum},
	{5000, TierGold},
	{1000, TierSilver},
	{0, TierBronze},
}

// TierForBalance is a pure function of the point balance; it applies on
// the way down as well as up.
func TierForBalance(balance int) Tier {
	for _, t := range tierThresholds {
		if balance >= t.min {
			return t.tier
		}
	}
	return TierBronze
}

func (t Tier) String() string {
	return string(t)
}

func IsValidTier(s string) bool {
	switch Tier(s) {
	case TierBronze, TierSilver, TierGold, TierPlatinum:
		return true
	}
	return false
}
