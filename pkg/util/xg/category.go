package xg

// Category labels a value for conditional formatting. The presentation
// layer decides what colour each one gets
type Category string

const (
	StronglyUnderperforming Category = "strongly_underperforming"
	Underperforming         Category = "underperforming"
	Neutral                 Category = "neutral"
	Overperforming          Category = "overperforming"
	StronglyOverperforming  Category = "strongly_overperforming"
)

// Band is a team's place within the league for one ranked metric
type Band string

const (
	BandTop    Band = "top"
	BandUpper  Band = "upper"
	BandMiddle Band = "middle"
	BandLower  Band = "lower"
	BandBottom Band = "bottom"
)

// PositionDiffCategory: a positive difference means the team sits higher
// than its chances suggest
func PositionDiffCategory(diff int) Category {
	switch {
	case diff > 0:
		return Overperforming
	case diff < 0:
		return Underperforming
	default:
		return Neutral
	}
}

// PointsDiffCategory labels actual minus expected points, with strong
// thresholds at plus or minus strong
func PointsDiffCategory(diff, strong float64) Category {
	switch {
	case diff > strong:
		return StronglyOverperforming
	case diff > 0:
		return Overperforming
	case diff < -strong:
		return StronglyUnderperforming
	case diff < 0:
		return Underperforming
	default:
		return Neutral
	}
}

// RankBand normalises rank into [0,1] over the league and splits it into
// five equal bands. A league of one team is always top
func RankBand(rank, leagueSize int) Band {
	if leagueSize <= 1 || rank <= 1 {
		return BandTop
	}
	normalized := float64(rank-1) / float64(leagueSize-1)
	switch {
	case normalized < 0.2:
		return BandTop
	case normalized < 0.4:
		return BandUpper
	case normalized < 0.6:
		return BandMiddle
	case normalized < 0.8:
		return BandLower
	default:
		return BandBottom
	}
}
