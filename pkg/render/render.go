// Package render draws analysis results as HTML for the dashboard and as
// Markdown for MCP clients. Markdown is produced by converting the same HTML
// so both outputs always agree.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"math"
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/richard-senior/xgdash/pkg/analysis"
	"github.com/richard-senior/xgdash/pkg/util/xg"
)

var funcs = template.FuncMap{
	"f1":           func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"f2":           func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"signed":       func(v int) string { return fmt.Sprintf("%+d", v) },
	"signedf":      func(v float64) string { return fmt.Sprintf("%+.1f", v) },
	"form":         Form,
	"band":         func(rank, size int) string { return string(xg.RankBand(rank, size)) },
	"ordinal":      Ordinal,
	"pathEscape":   url.PathEscape,
	"rollingChart": RollingXGChart,
	"pointsChart":  PointsChart,
	"paceChart":    PaceChart,
	"lastPace": func(pace []xg.PacePoint) *xg.PacePoint {
		if len(pace) == 0 {
			return nil
		}
		return &pace[len(pace)-1]
	},
}

var templates = template.Must(template.New("xgdash").Funcs(funcs).Parse(
	layoutTemplate + leagueTableTemplate + teamReportTemplate + teamChartsTemplate + comparisonTemplate,
))

var markdown = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

type page struct {
	Title      string
	SnapshotID string
	Body       template.HTML
}

// Form shows a form string or N/A for teams with too few matches
func Form(form string) string {
	if form == "" {
		return "N/A"
	}
	return form
}

// Ordinal formats a percentile as 1st, 2nd, 63rd...
func Ordinal(p float64) string {
	n := int(math.Round(p))
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// writePage renders the named fragments in order inside the page layout
func writePage(w io.Writer, title, snapshotID string, data any, names ...string) error {
	var body strings.Builder
	for _, name := range names {
		f, err := fragment(name, data)
		if err != nil {
			return err
		}
		body.WriteString(f)
	}
	return templates.ExecuteTemplate(w, "page", page{
		Title:      title,
		SnapshotID: snapshotID,
		Body:       template.HTML(body.String()),
	})
}

// LeagueTableHTML is the table fragment on its own
func LeagueTableHTML(t *analysis.LeagueTable) (string, error) {
	return fragment("league_table", t)
}

// LeagueTablePage writes the full league table page
func LeagueTablePage(w io.Writer, t *analysis.LeagueTable) error {
	return writePage(w, "League Table: Actual vs Expected", t.SnapshotID, t, "league_table")
}

// TeamReportHTML is the team report fragment on its own
func TeamReportHTML(r *analysis.TeamReport) (string, error) {
	return fragment("team_report", r)
}

// TeamPage writes the full team page, charts included
func TeamPage(w io.Writer, r *analysis.TeamReport) error {
	return writePage(w, r.Team, r.SnapshotID, r, "team_report", "team_charts")
}

// ComparisonHTML is the comparison fragment on its own
func ComparisonHTML(c *analysis.Comparison) (string, error) {
	return fragment("comparison", c)
}

// ToMarkdown converts an HTML fragment to GitHub flavoured Markdown
func ToMarkdown(html string) (string, error) {
	md, err := markdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// LeagueTableMarkdown renders the league table for MCP clients
func LeagueTableMarkdown(t *analysis.LeagueTable) (string, error) {
	html, err := LeagueTableHTML(t)
	if err != nil {
		return "", err
	}
	md, err := ToMarkdown(html)
	if err != nil {
		return "", err
	}
	return "## League Table: Actual vs Expected\n\n" + md, nil
}

// TeamReportMarkdown renders a team report for MCP clients
func TeamReportMarkdown(r *analysis.TeamReport) (string, error) {
	html, err := TeamReportHTML(r)
	if err != nil {
		return "", err
	}
	return ToMarkdown(html)
}

// ComparisonMarkdown renders a comparison for MCP clients
func ComparisonMarkdown(c *analysis.Comparison) (string, error) {
	html, err := ComparisonHTML(c)
	if err != nil {
		return "", err
	}
	md, err := ToMarkdown(html)
	if err != nil {
		return "", err
	}
	return "## Team comparison (league percentile in brackets)\n\n" + md, nil
}
