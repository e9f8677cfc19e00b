package render

import (
	"fmt"
	"html/template"
	"math"

	"github.com/richard-senior/xgdash/pkg/util"
	"github.com/richard-senior/xgdash/pkg/util/xg"
)

const (
	chartWidth  = 640
	chartHeight = 240
	marginLeft  = 40.0
	marginRight = 110.0
	marginTop   = 15.0
	marginBot   = 25.0
)

type chartSeries struct {
	Name   string
	Class  string
	Values []float64
}

// lineChart plots every series against match index 1..n on a shared y axis
// starting at zero
func lineChart(name, title string, series []chartSeries) (template.HTML, error) {
	n, yMax := 0, 0.0
	for _, s := range series {
		if len(s.Values) > n {
			n = len(s.Values)
		}
		for _, v := range s.Values {
			yMax = math.Max(yMax, v)
		}
	}
	if n == 0 {
		return "", nil
	}
	if yMax == 0 {
		yMax = 1
	}
	yMax *= 1.1

	plotW := chartWidth - marginLeft - marginRight
	plotH := chartHeight - marginTop - marginBot
	x := func(i int) float64 {
		if n == 1 {
			return marginLeft + plotW/2
		}
		return marginLeft + plotW*float64(i)/float64(n-1)
	}
	y := func(v float64) float64 {
		return marginTop + plotH*(1-v/yMax)
	}

	svg := util.NewBlankSVG(name, chartWidth, chartHeight)
	if err := svg.AddLine("x-axis", "axis", marginLeft, y(0), marginLeft+plotW, y(0)); err != nil {
		return "", err
	}
	if err := svg.AddLine("y-axis", "axis", marginLeft, y(0), marginLeft, marginTop); err != nil {
		return "", err
	}

	for k, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		points := make([]*util.Point, len(s.Values))
		for i, v := range s.Values {
			points[i] = util.NewPoint(x(i), y(v))
		}
		path, err := util.NewPathFromPoints(points, fmt.Sprintf("%s-%d", name, k))
		if err != nil {
			return "", err
		}
		path.Class = s.Class
		svg.AddPath(path)
		if _, err := svg.AddText("legend "+s.Class, s.Name, "", marginLeft+plotW+8, marginTop+12+float64(k)*16); err != nil {
			return "", err
		}
	}

	if _, err := svg.AddText("title", title, "", marginLeft+4, marginTop-3); err != nil {
		return "", err
	}
	top, err := svg.AddText("tick", fmt.Sprintf("%.1f", yMax), "", marginLeft-4, marginTop+4)
	if err != nil {
		return "", err
	}
	top.Anchor = "end"
	zero, err := svg.AddText("tick", "0", "", marginLeft-4, y(0)+4)
	if err != nil {
		return "", err
	}
	zero.Anchor = "end"
	if _, err := svg.AddText("tick", fmt.Sprintf("%d", n), "", marginLeft+plotW, y(0)+16); err != nil {
		return "", err
	}

	out, err := svg.ToSVG()
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

// RollingXGChart draws rolling xG for and against over a team's matches
func RollingXGChart(matches []xg.SeriesPoint) (template.HTML, error) {
	xgFor := make([]float64, len(matches))
	xgAgainst := make([]float64, len(matches))
	for i, m := range matches {
		xgFor[i] = m.RollingXGFor
		xgAgainst[i] = m.RollingXGAgainst
	}
	return lineChart("rolling-xg", "Rolling xG", []chartSeries{
		{Name: "xG for", Class: "xg-for", Values: xgFor},
		{Name: "xG against", Class: "xg-against", Values: xgAgainst},
	})
}

// PointsChart draws cumulative points against cumulative expected points
func PointsChart(matches []xg.SeriesPoint) (template.HTML, error) {
	points := make([]float64, len(matches))
	expected := make([]float64, len(matches))
	for i, m := range matches {
		points[i] = float64(m.CumulativePoints)
		expected[i] = m.CumulativeExpectedPoints
	}
	return lineChart("points", "Points vs xPoints", []chartSeries{
		{Name: "Points", Class: "points", Values: points},
		{Name: "xPoints", Class: "xpoints", Values: expected},
	})
}

// PaceChart draws the season projection on current form, on xPoints and
// the target line
func PaceChart(pace []xg.PacePoint) (template.HTML, error) {
	points := make([]float64, len(pace))
	expected := make([]float64, len(pace))
	target := make([]float64, len(pace))
	for i, p := range pace {
		points[i] = p.Points
		expected[i] = p.ExpectedPoints
		target[i] = p.Target
	}
	return lineChart("pace", "Season pace", []chartSeries{
		{Name: "Points pace", Class: "points", Values: points},
		{Name: "xPoints pace", Class: "xpoints", Values: expected},
		{Name: "Target", Class: "target", Values: target},
	})
}
