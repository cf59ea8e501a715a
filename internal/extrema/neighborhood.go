package extrema

import (
	"math"

	"github.com/ironsheep/blob-detector/internal/scalespace"
)

// maxNeighbors is the size of a full 3x3x3 neighbourhood minus its centre.
const maxNeighbors = 26

// plane is a read-only view of one level's pixels.
type plane struct {
	data       []float64
	stride     int
	rows, cols int
}

func planeOf(l scalespace.Level) plane {
	raw := l.Image.RawMatrix()
	return plane{data: raw.Data, stride: raw.Stride, rows: raw.Rows, cols: raw.Cols}
}

func (p plane) valid() bool {
	return p.data != nil
}

func (p plane) at(x, y int) float64 {
	return p.data[y*p.stride+x]
}

// neighborhood is a fixed-capacity accumulator reused for every pixel, so
// the scan loop does not allocate.
type neighborhood struct {
	values [maxNeighbors]float64
	n      int
}

// gather collects the clipped neighbourhood of (x, y). below and above may
// be zero planes when the level has no neighbour on that side.
func (nb *neighborhood) gather(below, current, above plane, x, y int) {
	nb.n = 0
	for dy := -1; dy <= 1; dy++ {
		py := y + dy
		if py < 0 || py >= current.rows {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			px := x + dx
			if px < 0 || px >= current.cols {
				continue
			}
			if dx != 0 || dy != 0 {
				nb.add(current.at(px, py))
			}
			if above.valid() {
				nb.add(above.at(px, py))
			}
			if below.valid() {
				nb.add(below.at(px, py))
			}
		}
	}
}

func (nb *neighborhood) add(v float64) {
	nb.values[nb.n] = v
	nb.n++
}

// max returns the largest gathered value, or -Inf when nothing was gathered.
func (nb *neighborhood) max() float64 {
	m := math.Inf(-1)
	for _, v := range nb.values[:nb.n] {
		if v > m {
			m = v
		}
	}
	return m
}
