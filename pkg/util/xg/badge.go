package xg

import (
	"path/filepath"
	"sort"
)

// TeamBadges maps warehouse team names to badge image file names
var TeamBadges = map[string]string{
	"AFC Wrexham":          "Wrexham_A.F.C._Logo.svg.png",
	"Birmingham City":      "Birmingham-City.png",
	"Blackburn Rovers":     "Blackburn_Rovers.svg.png",
	"Bristol City":         "Bristol_City_crest.svg.png",
	"Charlton Athletic":    "Charlton Logo.png",
	"Coventry City":        "Coventry_City_FC_crest.svg.png",
	"Derby County":         "Derby_County_crest.svg.png",
	"FC Middlesbrough":     "Middlesbrough_FC_crest.svg.png",
	"FC Millwall":          "Millwall_FC_crest.svg.png",
	"FC Portsmouth":        "Portsmouth_FC_logo.svg.png",
	"FC Southampton":       "FC_Southampton.svg.png",
	"FC Watford":           "Watford.svg.png",
	"Hull City":            "Hull_City_A.F.C._logo.svg.png",
	"Ipswich Town":         "Ipswich_Town.svg.png",
	"Leicester City":       "Leicester_City_crest.svg.png",
	"Norwich City":         "Norwich_City.png",
	"Oxford United":        "Oxford_United_FC_logo.svg.png",
	"Preston North End":    "Preston_North_End_FC.svg.png",
	"Queens Park Rangers":  "Queens_Park_Rangers_crest.svg.png",
	"Sheffield United":     "Sheffield_United_FC_logo.svg.png",
	"Sheffield Wednesday":  "Sheffield_Wednesday_badge.svg.png",
	"Stoke City":           "Stoke_City_FC.svg.png",
	"Swansea City":         "Swansea_City_A.F.C._logo.png",
	"West Bromwich Albion": "West_Bromwich_Albion.svg.png",
}

// BadgePath returns where a team's badge should live under dir.
// The file itself is not checked
func BadgePath(dir, team string) (string, bool) {
	file, ok := TeamBadges[team]
	if !ok {
		return "", false
	}
	return filepath.Join(dir, file), true
}

// BadgeTeams lists every team with a badge, sorted
func BadgeTeams() []string {
	teams := make([]string, 0, len(TeamBadges))
	for t := range TeamBadges {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	return teams
}
