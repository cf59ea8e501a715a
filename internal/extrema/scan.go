// Package extrema finds local maxima in a scale space.
//
// A pixel on an interior level is a maximum when its response is strictly
// greater than every in-bounds pixel of its 3x3x3 neighbourhood: the 8
// surrounding pixels on its own level and the 3x3 blocks (centre included)
// on the levels directly below and above. Neighbours outside the image are
// omitted rather than padded, so a pixel is compared against 26, 17 or 11
// values depending on whether it sits in the interior, on an edge or in a
// corner.
package extrema

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/blob-detector/internal/scalespace"
)

// Candidate is a scale-space maximum.
type Candidate struct {
	// X and Y are 0-based pixel coordinates.
	X int `json:"x"`
	Y int `json:"y"`

	// Level is the index of the scale-space level the maximum lies on.
	// It is always in [1, levels-2].
	Level int `json:"level"`

	// Sigma is the scale of Level.
	Sigma float64 `json:"sigma"`

	// Response is the level's value at (X, Y).
	Response float64 `json:"response"`
}

// Scan returns every pixel on an interior level of space whose response
// exceeds threshold and is strictly greater than all of its neighbours.
//
// Candidates are ordered by level, then row, then column. Structural
// problems with space (see scalespace.Space.Validate) are reported as errors
// before any pixel is examined. An empty result is not an error.
//
// Rows of a level are scanned concurrently; each row collects its own
// candidates, so the output does not depend on scheduling.
func Scan(space *scalespace.Space, threshold float64) ([]Candidate, error) {
	if err := space.Validate(); err != nil {
		return nil, err
	}

	var out []Candidate
	for i := 1; i < space.Len()-1; i++ {
		out = append(out, scanLevel(space, i, threshold)...)
	}
	return out, nil
}

func scanLevel(space *scalespace.Space, level int, threshold float64) []Candidate {
	rows, cols := space.Dims()
	below := planeOf(space.Levels[level-1])
	current := planeOf(space.Levels[level])
	above := planeOf(space.Levels[level+1])
	sigma := space.Levels[level].Sigma

	found := make([][]Candidate, rows)
	parallel.Line(rows, func(start, end int) {
		var nb neighborhood
		for y := start; y < end; y++ {
			for x := 0; x < cols; x++ {
				v := current.at(x, y)
				if !(v > threshold) {
					continue
				}
				nb.gather(below, current, above, x, y)
				if v > nb.max() {
					found[y] = append(found[y], Candidate{
						X:        x,
						Y:        y,
						Level:    level,
						Sigma:    sigma,
						Response: v,
					})
				}
			}
		}
	})

	var out []Candidate
	for _, row := range found {
		out = append(out, row...)
	}
	return out
}

// Neighborhood returns the comparison values for pixel (x, y) on the given
// level, in the order they are gathered. Levels without a level below or
// above contribute only the existing neighbours.
func Neighborhood(space *scalespace.Space, level, x, y int) ([]float64, error) {
	if space == nil || level < 0 || level >= space.Len() {
		return nil, fmt.Errorf("level %d out of range", level)
	}
	rows, cols := space.Dims()
	if x < 0 || x >= cols || y < 0 || y >= rows {
		return nil, fmt.Errorf("pixel (%d,%d) outside %dx%d image", x, y, cols, rows)
	}

	var below, above plane
	if level > 0 {
		below = planeOf(space.Levels[level-1])
	}
	if level < space.Len()-1 {
		above = planeOf(space.Levels[level+1])
	}

	var nb neighborhood
	nb.gather(below, planeOf(space.Levels[level]), above, x, y)
	return append([]float64(nil), nb.values[:nb.n]...), nil
}
