package warehouse

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Phase values for a shot
const (
	PhaseOpenPlay = "OPEN_PLAY"
	PhaseSetPiece = "SET_PIECE"
)

// ShotEvent is one row of the shot_events table. Team is the side that took
// the shot or, for own goals, the side that put the ball in its own net.
// The struct tags drive schema creation and inserts
type ShotEvent struct {
	ID       string    `json:"id" column:"id" dbtype:"TEXT NOT NULL" primary:"true"`
	MatchID  string    `json:"match_id" column:"match_id" dbtype:"TEXT NOT NULL" index:"true"`
	Kickoff  time.Time `json:"kickoff" column:"kickoff" dbtype:"TEXT NOT NULL"`
	HomeTeam string    `json:"home_team" column:"home_team" dbtype:"TEXT NOT NULL"`
	AwayTeam string    `json:"away_team" column:"away_team" dbtype:"TEXT NOT NULL"`
	Team     string    `json:"team" column:"team" dbtype:"TEXT" index:"true"`
	Phase    string    `json:"phase" column:"phase" dbtype:"TEXT"`
	ShotXG   float64   `json:"shot_xg" column:"shot_xg" dbtype:"DOUBLE PRECISION"`
	Goal     int       `json:"goal" column:"goal" dbtype:"INTEGER NOT NULL DEFAULT 0"`
	OwnGoal  int       `json:"own_goal" column:"own_goal" dbtype:"INTEGER NOT NULL DEFAULT 0"`
}

// TableName is where shot events live
func (ShotEvent) TableName() string {
	return "shot_events"
}

type column struct {
	name    string
	dbType  string
	primary bool
	index   bool
	field   int
}

// columns reads the persistable fields of a struct type from its tags
func columns(t reflect.Type) []column {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("persist") == "false" {
			continue
		}
		dbType := field.Tag.Get("dbtype")
		if dbType == "" {
			continue
		}
		name := field.Tag.Get("column")
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		cols = append(cols, column{
			name:    name,
			dbType:  dbType,
			primary: field.Tag.Get("primary") == "true",
			index:   field.Tag.Get("index") == "true",
			field:   i,
		})
	}
	return cols
}

// schemaSQL generates CREATE TABLE and CREATE INDEX statements from struct tags
func schemaSQL(obj any, table string) []string {
	cols := columns(reflect.TypeOf(obj))

	var defs, primary []string
	for _, c := range cols {
		defs = append(defs, fmt.Sprintf("%s %s", c.name, c.dbType))
		if c.primary {
			primary = append(primary, c.name)
		}
	}
	if len(primary) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(primary, ", ")))
	}

	stmts := []string{fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))}
	for _, c := range cols {
		if c.index {
			stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)", table, c.name, table, c.name))
		}
	}
	return stmts
}

// insertSQL returns the INSERT statement for a table built from struct tags
func insertSQL(obj any, table string) string {
	cols := columns(reflect.TypeOf(obj))
	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
}

// insertValues extracts column values in the same order as insertSQL.
// Times are stored as RFC3339 text so both drivers read them back the same way
func insertValues(obj any) []any {
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	cols := columns(v.Type())
	values := make([]any, len(cols))
	for i, c := range cols {
		val := v.Field(c.field).Interface()
		if t, ok := val.(time.Time); ok {
			val = t.UTC().Format(time.RFC3339)
		}
		values[i] = val
	}
	return values
}
