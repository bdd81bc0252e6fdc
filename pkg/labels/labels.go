package labels

import (
	"fmt"
	"strconv"
	"strings"
)

// Package labels reads and writes YOLO text annotations.
// One annotation per line: "class cx cy w h", coordinates normalized to [0,1].

// Box is an axis-aligned box in normalized image coordinates, stored by its center.
type Box struct {
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b Box) X1() float64 {
	return b.CX - b.Width/2
}

func (b Box) Y1() float64 {
	return b.CY - b.Height/2
}

func (b Box) X2() float64 {
	return b.CX + b.Width/2
}

func (b Box) Y2() float64 {
	return b.CY + b.Height/2
}

func (b Box) Area() float64 {
	return b.Width * b.Height
}

// Detection is one decoded line of a YOLO detection label file
type Detection struct {
	Class int `json:"class"`
	Box   Box `json:"box"`
}

// String formats the detection the way YOLO label files store it, with six decimals.
func (d Detection) String() string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", d.Class, d.Box.CX, d.Box.CY, d.Box.Width, d.Box.Height)
}

// Point is a polygon vertex in normalized image coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segmentation is one decoded line of a YOLO segmentation label file ("class x1 y1 x2 y2 ...")
type Segmentation struct {
	Class   int     `json:"class"`
	Polygon []Point `json:"polygon"`
}

// ParseClassID parses the first whitespace-delimited token of a label line.
// Returns false for blank lines, and for lines whose first token is not a non-negative integer.
func ParseClassID(line string) (int, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, false
	}
	return parseClass(fields[0])
}

func parseClass(s string) (int, bool) {
	c, err := strconv.Atoi(s)
	if err != nil || c < 0 {
		return 0, false
	}
	return c, true
}

// ParseDetectionLine decodes "class cx cy w h".
// Tokens after the fifth are ignored. Returns false if the line can't be decoded.
func ParseDetectionLine(line string) (Detection, bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return Detection{}, false
	}
	class, ok := parseClass(fields[0])
	if !ok {
		return Detection{}, false
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return Detection{}, false
		}
		v[i] = f
	}
	return Detection{
		Class: class,
		Box:   Box{CX: v[0], CY: v[1], Width: v[2], Height: v[3]},
	}, true
}

// ParseSegmentationLine decodes "class x1 y1 x2 y2 ...".
// We need at least two vertices, and an even number of coordinates.
func ParseSegmentationLine(line string) (Segmentation, bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return Segmentation{}, false
	}
	class, ok := parseClass(fields[0])
	if !ok {
		return Segmentation{}, false
	}
	coords := fields[1:]
	if len(coords)%2 != 0 {
		return Segmentation{}, false
	}
	poly := make([]Point, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		x, err := strconv.ParseFloat(coords[i], 64)
		if err != nil {
			return Segmentation{}, false
		}
		y, err := strconv.ParseFloat(coords[i+1], 64)
		if err != nil {
			return Segmentation{}, false
		}
		poly = append(poly, Point{X: x, Y: y})
	}
	return Segmentation{Class: class, Polygon: poly}, true
}
