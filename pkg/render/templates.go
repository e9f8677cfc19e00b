package render

const layoutTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/static/xgdash.css">
</head>
<body>
<header><h1>{{.Title}}</h1>{{if .SnapshotID}}<p class="snapshot">Snapshot {{.SnapshotID}}</p>{{end}}</header>
<main>
{{.Body}}
</main>
</body>
</html>
{{end}}`

const leagueTableTemplate = `{{define "league_table"}}<table class="league-table">
<thead>
<tr><th>Pos</th><th>Team</th><th>P</th><th>Pts</th><th>xPts</th><th>Pts Diff</th><th>xPos</th><th>Pos Diff</th><th>GF</th><th>GA</th><th>xGF</th><th>xGA</th><th>Form</th></tr>
</thead>
<tbody>
{{range .Rows}}<tr data-team="{{.Team}}">
<td>{{.ActualPosition}}</td>
<td><a href="/teams/{{pathEscape .Team}}">{{.Team}}</a></td>
<td>{{.MatchesPlayed}}</td>
<td>{{.TotalPoints}}</td>
<td>{{f1 .ExpectedPoints}}</td>
<td class="{{.PointsCategory}}">{{signedf .PointsDiff}}</td>
<td>{{.ExpectedPosition}}</td>
<td class="{{.PositionCategory}}">{{signed .PositionDiff}}</td>
<td>{{.GoalsFor}}</td>
<td>{{.GoalsAgainst}}</td>
<td>{{f1 .XGFor}}</td>
<td>{{f1 .XGAgainst}}</td>
<td class="form">{{form .Form}}</td>
</tr>
{{end}}</tbody>
</table>
{{end}}`

const teamReportTemplate = `{{define "team_report"}}<section class="summary">
<h2>{{.Team}}</h2>
<table class="team-summary">
<thead><tr><th>P</th><th>Pts</th><th>PPG</th><th>xPts</th><th>Pos</th><th>xPos</th><th>Form</th></tr></thead>
<tbody><tr>
<td>{{.Summary.MatchesPlayed}}</td>
<td>{{.Summary.TotalPoints}}</td>
<td>{{f2 .Summary.PointsPerGame}}</td>
<td>{{f1 .Table.ExpectedPoints}}</td>
<td>{{.Table.ActualPosition}}</td>
<td>{{.Table.ExpectedPosition}}</td>
<td>{{form .Table.Form}}</td>
</tr></tbody>
</table>
</section>
<section class="attack">
<h3>Attacking</h3>
<table class="ranks">
<thead><tr><th>Metric</th><th>Value</th><th>Rank</th></tr></thead>
<tbody>
<tr><td>Goals</td><td>{{.Summary.Goals}}</td><td class="{{band .Ranks.Goals .LeagueSize}}">{{.Ranks.Goals}}</td></tr>
<tr><td>xG</td><td>{{f2 .Summary.XG}}</td><td class="{{band .Ranks.XG .LeagueSize}}">{{.Ranks.XG}}</td></tr>
<tr><td>Open play xG</td><td>{{f2 .Summary.OpenPlayXG}}</td><td class="{{band .Ranks.OpenPlayXG .LeagueSize}}">{{.Ranks.OpenPlayXG}}</td></tr>
<tr><td>Set piece xG</td><td>{{f2 .Summary.SetPieceXG}}</td><td class="{{band .Ranks.SetPieceXG .LeagueSize}}">{{.Ranks.SetPieceXG}}</td></tr>
<tr><td>Set piece goals</td><td>{{.Summary.SetPieceGoals}}</td><td class="{{band .Ranks.SetPieceGoals .LeagueSize}}">{{.Ranks.SetPieceGoals}}</td></tr>
<tr><td>xG per 90</td><td>{{f2 .Summary.XGPer90}}</td><td class="{{band .Ranks.XGPer90 .LeagueSize}}">{{.Ranks.XGPer90}}</td></tr>
<tr><td>xG conversion</td><td>{{f2 .Summary.XGConversion}}</td><td class="{{band .Ranks.XGConversion .LeagueSize}}">{{.Ranks.XGConversion}}</td></tr>
</tbody>
</table>
</section>
<section class="defence">
<h3>Defending</h3>
<table class="ranks">
<thead><tr><th>Metric</th><th>Value</th><th>Rank</th></tr></thead>
<tbody>
<tr><td>Goals against</td><td>{{.Summary.GoalsAgainst}}</td><td class="{{band .Ranks.GoalsAgainst .LeagueSize}}">{{.Ranks.GoalsAgainst}}</td></tr>
<tr><td>xGA</td><td>{{f2 .Summary.XGA}}</td><td class="{{band .Ranks.XGA .LeagueSize}}">{{.Ranks.XGA}}</td></tr>
<tr><td>Open play xGA</td><td>{{f2 .Summary.OpenPlayXGA}}</td><td class="{{band .Ranks.OpenPlayXGA .LeagueSize}}">{{.Ranks.OpenPlayXGA}}</td></tr>
<tr><td>Set piece xGA</td><td>{{f2 .Summary.SetPieceXGA}}</td><td class="{{band .Ranks.SetPieceXGA .LeagueSize}}">{{.Ranks.SetPieceXGA}}</td></tr>
<tr><td>Set piece goals against</td><td>{{.Summary.SetPieceGoalsAgainst}}</td><td class="{{band .Ranks.SetPieceGoalsAgainst .LeagueSize}}">{{.Ranks.SetPieceGoalsAgainst}}</td></tr>
<tr><td>xGA per 90</td><td>{{f2 .Summary.XGAPer90}}</td><td class="{{band .Ranks.XGAPer90 .LeagueSize}}">{{.Ranks.XGAPer90}}</td></tr>
<tr><td>xGA conversion</td><td>{{f2 .Summary.XGAConversion}}</td><td class="{{band .Ranks.XGAConversion .LeagueSize}}">{{.Ranks.XGAConversion}}</td></tr>
</tbody>
</table>
</section>
<section class="matches">
<h3>Matches</h3>
<table class="match-log">
<thead><tr><th>Match</th><th>Opponent</th><th>Result</th><th>GF</th><th>GA</th><th>xG</th><th>xGA</th><th>xG (R5)</th><th>xGA (R5)</th><th>Pts</th><th>xPts</th></tr></thead>
<tbody>
{{range .Matches}}<tr>
<td>{{.MatchIndex}}</td>
<td>{{.Opponent}} ({{.Venue}})</td>
<td>{{.Result}}</td>
<td>{{.GoalsFor}}</td>
<td>{{.GoalsAgainst}}</td>
<td>{{f2 .XGFor}}</td>
<td>{{f2 .XGAgainst}}</td>
<td>{{f2 .RollingXGFor}}</td>
<td>{{f2 .RollingXGAgainst}}</td>
<td>{{.Points}}</td>
<td>{{f2 .ExpectedPoints}}</td>
</tr>
{{end}}</tbody>
</table>
</section>
{{with $last := lastPace .Pace}}<section class="pace">
<h3>Season pace</h3>
<p>On current form: {{f1 $last.Points}} points. On xPoints: {{f1 $last.ExpectedPoints}}. Target: {{f1 $last.Target}}.</p>
</section>
{{end}}{{end}}`

const teamChartsTemplate = `{{define "team_charts"}}<section class="charts">
<h3>Charts</h3>
{{rollingChart .Matches}}
{{pointsChart .Matches}}
{{paceChart .Pace}}
</section>
{{end}}`

const comparisonTemplate = `{{define "comparison"}}<table class="comparison">
<thead>
<tr><th>Metric</th>{{range .Profiles}}<th>{{.Summary.Team}}</th>{{end}}</tr>
</thead>
<tbody>
<tr><td>xG per 90</td>{{range .Profiles}}<td>{{f2 .Summary.XGPer90}} ({{ordinal .Percentiles.XGPer90}})</td>{{end}}</tr>
<tr><td>xGA per 90</td>{{range .Profiles}}<td>{{f2 .Summary.XGAPer90}} ({{ordinal .Percentiles.XGAPer90}})</td>{{end}}</tr>
<tr><td>xG conversion</td>{{range .Profiles}}<td>{{f2 .Summary.XGConversion}} ({{ordinal .Percentiles.XGConversion}})</td>{{end}}</tr>
<tr><td>xGA conversion</td>{{range .Profiles}}<td>{{f2 .Summary.XGAConversion}} ({{ordinal .Percentiles.XGAConversion}})</td>{{end}}</tr>
<tr><td>Points per game</td>{{range .Profiles}}<td>{{f2 .Summary.PointsPerGame}} ({{ordinal .Percentiles.PointsPerGame}})</td>{{end}}</tr>
<tr><td>xGD per 90</td>{{range .Profiles}}<td>{{f2 .Summary.XGDPer90}} ({{ordinal .Percentiles.XGDPer90}})</td>{{end}}</tr>
</tbody>
</table>
{{end}}`

// Stylesheet colours the category and band classes the templates emit
const Stylesheet = `body { font-family: sans-serif; margin: 1.5em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { padding: 0.25em 0.6em; text-align: right; }
td:nth-child(2), th:nth-child(2) { text-align: left; }
tbody tr:nth-child(even) { background: #f4f4f4; }
.snapshot { color: #888; font-size: 0.8em; }
.form { font-family: monospace; }
.axis { stroke: #999; }
.xg-for, .points { stroke: #1a9641; stroke-width: 2; }
.xg-against, .xpoints { stroke: #d7191c; stroke-width: 2; }
.target { stroke: #555; stroke-dasharray: 4 3; }
.strongly_overperforming, .top { background: #1a9641; color: #fff; }
.overperforming, .upper { background: #a6d96a; }
.neutral, .middle { background: #ffffbf; }
.underperforming, .lower { background: #fdae61; }
.strongly_underperforming, .bottom { background: #d7191c; color: #fff; }
`
