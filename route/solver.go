// route/solver.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package route

import (
	"container/heap"
	"errors"
	gomath "math"

	"github.com/mmp/skyroute/cost"
	"github.com/mmp/skyroute/grid"
	"github.com/mmp/skyroute/wx"
)

var ErrUnreachable = errors.New("destination was never reached by the cost-distance search")

// Direction indexes the 8 grid neighbors in the fixed traversal order
// north, northeast, east, southeast, south, southwest, west, northwest.
// It doubles as the back-link code stored per cell.
type Direction int8

const NoDirection Direction = -1

var (
	// Row 0 is the northern edge, so y-1 steps north.
	dirOffset  = [8][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
	dirBearing = [8]float64{0, 45, 90, 135, 180, 225, 270, 315}
	dirScale   = [8]float64{1, gomath.Sqrt2, 1, gomath.Sqrt2, 1, gomath.Sqrt2, 1, gomath.Sqrt2}
)

func (d Direction) opposite() Direction {
	return (d + 4) % 8
}

// EdgeCost is the pluggable directional component of the step cost: a
// multiplier applied per move given the compass bearing of that move.
// The wind-aware and fallback searches are the same solver with
// different EdgeCost implementations.
type EdgeCost interface {
	Factor(moveBearing float64) float64
}

// Isotropic applies no directional preference.
type Isotropic struct{}

func (Isotropic) Factor(float64) float64 { return 1 }

// AnisotropicWind penalizes moves whose bearing opposes the wind
// bearing, using the same opposition curve as the per-cell wind-exposure
// penalty. The bias is uniform over the grid (one wind reading per
// computation); a per-cell bias raster would evaluate this per source
// cell instead.
type AnisotropicWind struct {
	Wind wx.Reading
}

func (a AnisotropicWind) Factor(moveBearing float64) float64 {
	return cost.WindFactor(a.Wind, moveBearing)
}

// Field is the product of one cost-distance search: per cell, the
// minimum cumulative cost from the source, and the back-link direction
// toward the predecessor that achieved it (NoDirection for the source
// and for unreached cells). It is written once by Solve and read-only
// afterwards.
type Field struct {
	grid.Geometry
	Dist []float64
	Back []Direction
}

// Solve computes the cost-distance field from the source and
// reconstructs the least-cost route to the destination by backtracking.
//
// The search is a single-source shortest-path relaxation over the
// 8-connected grid graph. Stepping from cell A to neighbor B costs
//
//	distance(A,B) * (cost(A)+cost(B))/2 * ec.Factor(bearing(A->B))
//
// with distance the center-to-center length (cell size, or sqrt(2) times
// it diagonally). Cumulative-cost ties are broken by whichever path is
// finalized first; with the fixed neighbor traversal order this is
// deterministic, though not canonical.
//
// Cells with NoData cost are not traversed. Everything else carries a
// finite cost -- obstacles are expensive, not impassable -- so in
// practice the destination is always reached; ErrUnreachable covers the
// remaining cases (endpoints separated by a NoData barrier).
func Solve(s *cost.Surface, src, dst grid.Point, ec EdgeCost) (Route, *Field, error) {
	if err := s.CheckEndpoint(src, "start"); err != nil {
		return nil, nil, err
	}
	if err := s.CheckEndpoint(dst, "end"); err != nil {
		return nil, nil, err
	}

	sx, sy, _ := s.CellForPoint(src)
	dx, dy, _ := s.CellForPoint(dst)
	srcIdx, dstIdx := s.Index(sx, sy), s.Index(dx, dy)

	f := &Field{
		Geometry: s.Geometry,
		Dist:     make([]float64, s.NumCells()),
		Back:     make([]Direction, s.NumCells()),
	}
	for i := range f.Dist {
		f.Dist[i] = gomath.Inf(1)
		f.Back[i] = NoDirection
	}
	f.Dist[srcIdx] = 0

	// The directional bias is uniform, so the per-direction factor can
	// be evaluated once up front.
	var stepFactor [8]float64
	for d := range stepFactor {
		stepFactor[d] = dirScale[d] * s.CellSize * ec.Factor(dirBearing[d])
	}

	finalized := make([]bool, s.NumCells())
	pq := priorityQueue{{cell: srcIdx}}

	for len(pq) > 0 {
		it := heap.Pop(&pq).(pqItem)
		if finalized[it.cell] {
			continue
		}
		finalized[it.cell] = true
		if it.cell == dstIdx {
			break
		}

		cx, cy := it.cell%s.Width, it.cell/s.Width
		cu := s.Cost.Values[it.cell]

		for d := Direction(0); d < 8; d++ {
			nx, ny := cx+dirOffset[d][0], cy+dirOffset[d][1]
			if !s.InBounds(nx, ny) {
				continue
			}
			ni := s.Index(nx, ny)
			if finalized[ni] {
				continue
			}
			cv := s.Cost.Values[ni]
			if s.Cost.IsNoData(cv) {
				continue
			}

			nd := f.Dist[it.cell] + stepFactor[d]*(cu+cv)/2
			if nd < f.Dist[ni] {
				f.Dist[ni] = nd
				f.Back[ni] = d.opposite()
				heap.Push(&pq, pqItem{cell: ni, dist: nd})
			}
		}
	}

	if !finalized[dstIdx] {
		return nil, f, ErrUnreachable
	}

	// Walk the back-links from the destination to the source, then
	// reverse; each visited cell center becomes one route vertex.
	var r Route
	for cell := dstIdx; ; {
		r = append(r, s.CellCenter(cell%s.Width, cell/s.Width))
		d := f.Back[cell]
		if d == NoDirection {
			break
		}
		cx, cy := cell%s.Width, cell/s.Width
		cell = s.Index(cx+dirOffset[d][0], cy+dirOffset[d][1])
	}
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}

	return r, f, nil
}

type pqItem struct {
	cell int
	dist float64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)        { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]
	return it
}
