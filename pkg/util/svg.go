package util

import (
	"fmt"
	"html"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
/// POINT
///////////////////////////////////////////////////////////////////////////////

// Point represents a 2D point with X and Y coordinates
type Point struct {
	X, Y float64
}

func NewPoint(x float64, y float64) *Point {
	return &Point{X: x, Y: y}
}

///////////////////////////////////////////////////////////////////////////////
/// PATH
///////////////////////////////////////////////////////////////////////////////

// Path is a polyline drawn as a single SVG <path>
type Path struct {
	ID          string
	Class       string
	Style       string
	Points      []*Point
	CommandsStr string
}

func NewPathFromPoints(points []*Point, id string) (*Path, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("must supply an array of Points to this constructor")
	}
	if id == "" {
		id = "pathFromPoints"
	}

	var commands strings.Builder
	fmt.Fprintf(&commands, "M %.2f,%.2f", points[0].X, points[0].Y)
	for _, p := range points[1:] {
		fmt.Fprintf(&commands, " L %.2f,%.2f", p.X, p.Y)
	}

	return &Path{
		ID:          id,
		Points:      points,
		CommandsStr: commands.String(),
	}, nil
}

func (p *Path) ToPathTag() (string, error) {
	if p.CommandsStr == "" {
		return "", fmt.Errorf("path %s has no commands", p.ID)
	}
	attrs := fmt.Sprintf(`id="%s" d="%s" fill="none"`, html.EscapeString(p.ID), p.CommandsStr)
	if p.Class != "" {
		attrs += fmt.Sprintf(` class="%s"`, html.EscapeString(p.Class))
	}
	if p.Style != "" {
		attrs += fmt.Sprintf(` style="%s"`, html.EscapeString(p.Style))
	}
	return "<path " + attrs + " />", nil
}

///////////////////////////////////////////////////////////////////////////////
/// TEXT
///////////////////////////////////////////////////////////////////////////////

// SVGEmbeddedText is a label placed on the drawing
type SVGEmbeddedText struct {
	X, Y    float64
	Name    string
	Content string
	Style   string
	Anchor  string
}

func NewSVGEmbeddedText(name, text, style string, x, y float64) (*SVGEmbeddedText, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if style == "" {
		style = "font-size: 11px; font-family: sans-serif; fill: #333;"
	}
	return &SVGEmbeddedText{X: x, Y: y, Name: name, Content: text, Style: style, Anchor: "start"}, nil
}

func (t *SVGEmbeddedText) toTextTag() string {
	return fmt.Sprintf(`<text class="%s" x="%.2f" y="%.2f" text-anchor="%s" style="%s">%s</text>`,
		html.EscapeString(t.Name), t.X, t.Y, t.Anchor, html.EscapeString(t.Style), html.EscapeString(t.Content))
}

///////////////////////////////////////////////////////////////////////////////
/// SVG
///////////////////////////////////////////////////////////////////////////////

// SVG holds paths and text and renders them as an inline <svg> element
type SVG struct {
	Name          string
	Paths         []*Path
	Text          []*SVGEmbeddedText
	Width, Height int
}

func NewBlankSVG(name string, width, height int) *SVG {
	return &SVG{
		Name:   name,
		Paths:  []*Path{},
		Text:   []*SVGEmbeddedText{},
		Width:  width,
		Height: height,
	}
}

func (s *SVG) AddPath(p *Path) {
	s.Paths = append(s.Paths, p)
}

func (s *SVG) AddLine(id, class string, x1, y1, x2, y2 float64) error {
	p, err := NewPathFromPoints([]*Point{NewPoint(x1, y1), NewPoint(x2, y2)}, id)
	if err != nil {
		return err
	}
	p.Class = class
	s.AddPath(p)
	return nil
}

func (s *SVG) AddText(name, text, style string, x, y float64) (*SVGEmbeddedText, error) {
	t, err := NewSVGEmbeddedText(name, text, style, x, y)
	if err != nil {
		return nil, err
	}
	s.Text = append(s.Text, t)
	return t, nil
}

// ToSVG renders the element without an XML prolog so it can sit inside HTML
func (s *SVG) ToSVG() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="%s" width="%d" height="%d" viewBox="0 0 %d %d">`,
		html.EscapeString(s.Name), s.Width, s.Height, s.Width, s.Height)
	b.WriteString("\n")
	for _, p := range s.Paths {
		tag, err := p.ToPathTag()
		if err != nil {
			return "", err
		}
		b.WriteString(tag)
		b.WriteString("\n")
	}
	for _, t := range s.Text {
		b.WriteString(t.toTextTag())
		b.WriteString("\n")
	}
	b.WriteString("</svg>")
	return b.String(), nil
}
