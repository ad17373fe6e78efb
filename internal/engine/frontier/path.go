package frontier

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
)

// BuildAction tells a path what to do during the next build step.
type BuildAction uint8

const (
	// Advance grows the path outward by one edge.
	Advance BuildAction = iota
	// Retreat collapses the path's head into its tail.
	Retreat
	// Station holds the path in place.
	Station
)

func (a BuildAction) String() string {
	switch a {
	case Advance:
		return "advance"
	case Retreat:
		return "retreat"
	case Station:
		return "station"
	default:
		return fmt.Sprintf("BuildAction(%d)", uint8(a))
	}
}

// MinRingSize is the smallest number of paths a ring may shrink to.
const MinRingSize = 3

// Path is a directed boundary edge of the frontier, from Tail to Head.
// Paths form a circular doubly linked ring through Left and Right.
type Path struct {
	Head    mesh.VertexID
	Tail    mesh.VertexID
	Heading mgl32.Vec3
	Action  BuildAction

	Left  *Path
	Right *Path

	slot int // index in Generator.paths for the current phase
}

// insertRight splices p between left and left.Right.
func insertRight(left, p *Path) {
	right := left.Right
	p.Left = left
	p.Right = right
	left.Right = p
	right.Left = p
}

// unlink removes p from its ring, closing the gap between its neighbors.
func unlink(p *Path) {
	p.Left.Right = p.Right
	p.Right.Left = p.Left
	p.Left, p.Right = nil, nil
}

var errBrokenRing = errors.New("frontier: broken ring")

// checkRing verifies ring closure for every path and that no ring is smaller
// than MinRingSize.
func checkRing(paths []*Path) error {
	var errs []error
	seen := make(map[*Path]bool, len(paths))
	for i, p := range paths {
		if p.Left == nil || p.Right == nil {
			errs = append(errs, fmt.Errorf("path %d: detached: %w", i, errBrokenRing))
			continue
		}
		if p.Right.Left != p || p.Left.Right != p {
			errs = append(errs, fmt.Errorf("path %d: neighbors do not point back: %w", i, errBrokenRing))
		}
		if seen[p] {
			continue
		}
		size := 0
		for q := p; ; q = q.Right {
			seen[q] = true
			size++
			if q.Right == p || q.Right == nil || size > len(paths) {
				break
			}
		}
		if size < MinRingSize {
			errs = append(errs, fmt.Errorf("path %d: ring of %d paths: %w", i, size, errBrokenRing))
		}
	}
	return errors.Join(errs...)
}
