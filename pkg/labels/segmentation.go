package labels

import (
	"bufio"
	"io"
	"strings"
)

// SegmentationToBox returns the axis-aligned extent of the polygon.
// This is not a minimum-area rotated fit, so rotated objects get a loose box.
// An empty polygon produces a zero box at the origin.
func SegmentationToBox(class int, polygon []Point) Detection {
	if len(polygon) == 0 {
		return Detection{Class: class}
	}
	minX, maxX := polygon[0].X, polygon[0].X
	minY, maxY := polygon[0].Y, polygon[0].Y
	for _, p := range polygon[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	width := maxX - minX
	height := maxY - minY
	return Detection{
		Class: class,
		Box: Box{
			CX:     minX + width/2,
			CY:     minY + height/2,
			Width:  width,
			Height: height,
		},
	}
}

// ConvertResult is the outcome of converting one segmentation label file
type ConvertResult struct {
	Detections []Detection
	// Non-blank lines that could not be parsed as a polygon. A line with an odd number
	// of coordinates has a dangling x value and is counted here rather than converted.
	Dropped    int
}

// Text renders the detections one per line, without a trailing newline.
func (r *ConvertResult) Text() string {
	lines := make([]string, len(r.Detections))
	for i, d := range r.Detections {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// ConvertSegmentation converts every polygon line in r to a bounding box line.
// Output order matches input order. Unparsable lines are dropped and counted.
func ConvertSegmentation(r io.Reader) (*ConvertResult, error) {
	res := &ConvertResult{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		seg, ok := ParseSegmentationLine(line)
		if !ok {
			res.Dropped++
			continue
		}
		res.Detections = append(res.Detections, SegmentationToBox(seg.Class, seg.Polygon))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
