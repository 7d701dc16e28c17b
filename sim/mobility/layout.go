// Package mobility provides MobilityModel implementations: which access point
// serves each mobile device over simulated time.
package mobility

import (
	"math"

	"github.com/edge-sim/airtime-sim/sim"
)

// GridLayout places n access points at the centers of a near-square grid
// covering an areaX x areaY rectangle, row by row.
func GridLayout(n int, areaX, areaY float64) []sim.Location {
	if n <= 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	cellX := areaX / float64(cols)
	cellY := areaY / float64(rows)

	aps := make([]sim.Location, n)
	for i := range aps {
		row, col := i/cols, i%cols
		aps[i] = sim.Location{
			X:                  cellX*float64(col) + cellX/2,
			Y:                  cellY*float64(row) + cellY/2,
			ServingAccessPoint: i,
		}
	}
	return aps
}
