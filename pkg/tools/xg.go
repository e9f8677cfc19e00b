package tools

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/richard-senior/xgdash/internal/logger"
	"github.com/richard-senior/xgdash/pkg/analysis"
	"github.com/richard-senior/xgdash/pkg/protocol"
	"github.com/richard-senior/xgdash/pkg/render"
)

// XgTools exposes the analyses as MCP tools. Every call takes a fresh
// snapshot from the analyzer's source
type XgTools struct {
	analyzer *analysis.Analyzer
	timeout  time.Duration
}

// NewXgTools binds the tools to an analyzer. timeout bounds each call's
// warehouse access
func NewXgTools(a *analysis.Analyzer, timeout time.Duration) *XgTools {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &XgTools{analyzer: a, timeout: timeout}
}

func (x *XgTools) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), x.timeout)
}

func LeagueTableTool() protocol.Tool {
	return protocol.Tool{
		Name: "xg_league_table",
		Description: `
		Returns the league table ranked on actual points alongside the table ranked on expected points (xPoints),
		with the points difference and position difference for each team. A positive difference means the team
		sits higher than its chances suggest.
		`,
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: map[string]protocol.ToolProperty{},
			Required:   []string{},
		},
	}
}

func TeamReportTool() protocol.Tool {
	return protocol.Tool{
		Name:        "xg_team_report",
		Description: "Returns one team's season summary, attacking and defensive ranks, match by match xG log with rolling 5 match averages and a projection of its points pace over the season",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"team": {
					Type:        "string",
					Description: "The team name, for example 'Stoke City'. Case does not matter",
				},
			},
			Required: []string{"team"},
		},
	}
}

func ExpectedPointsTool() protocol.Tool {
	return protocol.Tool{
		Name:        "xg_expected_points",
		Description: "Converts a single match's expected goals for and against into expected points (between 0 and 3) assuming independent Poisson goal counts, with win, draw and loss probabilities",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"xg": {
					Type:        "number",
					Description: "Expected goals for the team, must not be negative",
				},
				"xga": {
					Type:        "number",
					Description: "Expected goals against the team, must not be negative",
				},
				"max_goals": {
					Type:        "integer",
					Description: "Size of the scoreline grid, defaults to 10 which covers 0 to 9 goals for each side",
				},
			},
			Required: []string{"xg", "xga"},
		},
	}
}

func CompareTeamsTool() protocol.Tool {
	return protocol.Tool{
		Name:        "xg_compare_teams",
		Description: "Compares two or three teams on xG per 90, xGA per 90, conversion, points per game and xGD per 90, each with the team's percentile within the league",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"teams": {
					Type:        "string",
					Description: "Comma separated team names, for example 'Hull City,Stoke City'",
				},
			},
			Required: []string{"teams"},
		},
	}
}

func paramsMap(params any) map[string]any {
	if m, ok := params.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func numberParam(m map[string]any, name string) (float64, bool, error) {
	v, ok := m[name]
	if !ok || v == nil {
		return 0, false, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, true, fmt.Errorf("%s must be a number", name)
	}
	return f, true, nil
}

func (x *XgTools) HandleLeagueTable(params any) (any, error) {
	logger.Info("Handling xg_league_table")
	ctx, cancel := x.withTimeout()
	defer cancel()

	table, err := x.analyzer.LeagueTable(ctx)
	if err != nil {
		return nil, err
	}
	md, err := render.LeagueTableMarkdown(table)
	if err != nil {
		return nil, err
	}
	return protocol.TextResult(md), nil
}

func (x *XgTools) HandleTeamReport(params any) (any, error) {
	team, _ := paramsMap(params)["team"].(string)
	if strings.TrimSpace(team) == "" {
		return nil, fmt.Errorf("no team parameter was sent")
	}
	logger.Info("Handling xg_team_report for", team)
	ctx, cancel := x.withTimeout()
	defer cancel()

	report, err := x.analyzer.TeamReport(ctx, team)
	if err != nil {
		return nil, err
	}
	md, err := render.TeamReportMarkdown(report)
	if err != nil {
		return nil, err
	}
	return protocol.TextResult(md), nil
}

func (x *XgTools) HandleExpectedPoints(params any) (any, error) {
	m := paramsMap(params)
	xgFor, ok, err := numberParam(m, "xg")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no xg parameter was sent")
	}
	xgAgainst, ok, err := numberParam(m, "xga")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no xga parameter was sent")
	}
	maxGoals := 0
	if g, ok, err := numberParam(m, "max_goals"); err != nil {
		return nil, err
	} else if ok {
		if g < 1 || g != math.Trunc(g) {
			return nil, fmt.Errorf("max_goals must be a positive integer")
		}
		maxGoals = int(g)
	}

	res, err := x.analyzer.ExpectedPoints(xgFor, xgAgainst, maxGoals)
	if err != nil {
		return nil, err
	}
	text := fmt.Sprintf(
		"xG %.2f vs xGA %.2f: **%.3f expected points** (win %.1f%%, draw %.1f%%, loss %.1f%%, %dx%d grid)",
		res.XGFor, res.XGAgainst, res.ExpectedPoints,
		res.Outcome.Win*100, res.Outcome.Draw*100, res.Outcome.Loss*100, res.MaxGoals, res.MaxGoals,
	)
	return protocol.TextResult(text), nil
}

func (x *XgTools) HandleCompareTeams(params any) (any, error) {
	var teams []string
	switch v := paramsMap(params)["teams"].(type) {
	case string:
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				teams = append(teams, t)
			}
		}
	case []any:
		for _, t := range v {
			if s, ok := t.(string); ok && strings.TrimSpace(s) != "" {
				teams = append(teams, strings.TrimSpace(s))
			}
		}
	}
	logger.Info("Handling xg_compare_teams for", teams)
	ctx, cancel := x.withTimeout()
	defer cancel()

	cmp, err := x.analyzer.Compare(ctx, teams)
	if err != nil {
		return nil, err
	}
	md, err := render.ComparisonMarkdown(cmp)
	if err != nil {
		return nil, err
	}
	return protocol.TextResult(md), nil
}
