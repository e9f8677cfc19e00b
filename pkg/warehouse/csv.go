package warehouse

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/richard-senior/xgdash/internal/logger"
)

// Columns a shot events CSV must carry. Extra columns are ignored
var requiredCSVColumns = []string{"match_id", "kickoff", "home_team", "away_team", "team", "phase", "shot_xg", "goal", "own_goal"}

// ParseEventsCSV reads shot events from CSV with a header row.
// Rows that cannot be parsed are skipped with a warning
func ParseEventsCSV(r io.Reader) ([]ShotEvent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return []ShotEvent{}, nil
	}

	headers := records[0]
	// Remove BOM
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	for i := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(headers[i]))
	}

	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for _, col := range requiredCSVColumns {
		if !present[col] {
			return nil, fmt.Errorf("CSV is missing column %q", col)
		}
	}

	events := make([]ShotEvent, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < len(headers) {
			logger.Warn("Skipping incomplete record at row", i+2)
			continue
		}
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			row[h] = strings.TrimSpace(record[j])
		}
		ev, err := parseEventRow(row)
		if err != nil {
			logger.Warn("Failed to parse shot event at row", i+2, err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseEventRow(row map[string]string) (ShotEvent, error) {
	ev := ShotEvent{
		ID:       row["id"],
		MatchID:  row["match_id"],
		HomeTeam: row["home_team"],
		AwayTeam: row["away_team"],
		Team:     row["team"],
		Phase:    strings.ToUpper(row["phase"]),
	}
	if ev.MatchID == "" || ev.HomeTeam == "" || ev.AwayTeam == "" {
		return ev, fmt.Errorf("match_id, home_team and away_team are required")
	}

	kickoff, err := parseKickoff(row["kickoff"])
	if err != nil {
		return ev, err
	}
	ev.Kickoff = kickoff

	if v := row["shot_xg"]; v != "" && !strings.EqualFold(v, "nan") {
		ev.ShotXG, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return ev, fmt.Errorf("shot_xg %q: %w", v, err)
		}
		if ev.ShotXG < 0 {
			return ev, fmt.Errorf("shot_xg %q is negative", v)
		}
	}
	if ev.Goal, err = parseFlag(row["goal"]); err != nil {
		return ev, fmt.Errorf("goal: %w", err)
	}
	if ev.OwnGoal, err = parseFlag(row["own_goal"]); err != nil {
		return ev, fmt.Errorf("own_goal: %w", err)
	}
	return ev, nil
}

var kickoffLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

func parseKickoff(v string) (time.Time, error) {
	for _, layout := range kickoffLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised kickoff %q", v)
}

// parseFlag accepts 1/0, true/false and blank (false)
func parseFlag(v string) (int, error) {
	switch strings.ToLower(v) {
	case "", "0", "0.0", "false", "nan":
		return 0, nil
	case "1", "1.0", "true":
		return 1, nil
	}
	return 0, fmt.Errorf("unrecognised flag %q", v)
}
