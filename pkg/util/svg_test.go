package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathFromPoints(t *testing.T) {
	p, err := NewPathFromPoints([]*Point{NewPoint(0, 10), NewPoint(5, 2.5), NewPoint(10, 0)}, "line")
	require.NoError(t, err)
	assert.Equal(t, "M 0.00,10.00 L 5.00,2.50 L 10.00,0.00", p.CommandsStr)

	_, err = NewPathFromPoints(nil, "empty")
	assert.Error(t, err)

	p, err = NewPathFromPoints([]*Point{NewPoint(1, 1)}, "")
	require.NoError(t, err)
	assert.Equal(t, "pathFromPoints", p.ID)
}

func TestToSVG(t *testing.T) {
	s := NewBlankSVG("chart", 200, 100)
	require.NoError(t, s.AddLine("axis", "axis", 0, 90, 200, 90))
	_, err := s.AddText("label", "Hull & Stoke", "", 10, 20)
	require.NoError(t, err)
	_, err = s.AddText("label", "", "", 0, 0)
	assert.Error(t, err)

	out, err := s.ToSVG()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" class="chart" width="200" height="100"`))
	assert.Contains(t, out, `<path id="axis" d="M 0.00,90.00 L 200.00,90.00" fill="none" class="axis" />`)
	assert.Contains(t, out, ">Hull &amp; Stoke</text>")
	assert.True(t, strings.HasSuffix(out, "</svg>"))

	s.AddPath(&Path{ID: "broken"})
	_, err = s.ToSVG()
	assert.Error(t, err)
}
