// Package charts draws the dashboard figures with go-chart and encodes them as PNG or SVG.
package charts

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
)

// Figure is anything go-chart can render: chart.Chart, chart.BarChart and friends.
type Figure interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Format is an output image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// Default figure size in pixels.
const (
	DefaultWidth  = 960
	DefaultHeight = 480
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to plot")

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case PNG, SVG:
		return f, nil
	}
	return "", fmt.Errorf("unsupported chart format %q", s)
}

// ContentType returns the MIME type of the encoding.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Render encodes fig in the requested format.
func Render(fig Figure, format Format) ([]byte, error) {
	if fig == nil {
		return nil, ErrNoData
	}
	var buf bytes.Buffer
	if err := fig.Render(format.provider(), &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", format, err)
	}
	return buf.Bytes(), nil
}

// DataURI wraps PNG bytes for inline use in an img tag.
func DataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
