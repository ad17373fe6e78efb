// Package sim drives a terrain generator from a moving tracked point.
package sim

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Tracker moves a point along a list of waypoints at a fixed speed.
type Tracker struct {
	path      []mgl32.Vec3
	pathIndex int // next waypoint
	speed     float32
	position  mgl32.Vec3

	// Loop restarts the path from its first waypoint once the last one is
	// reached.
	Loop bool

	IsFollowingPath bool
}

// NewTracker creates a tracker at the first waypoint, heading for the second.
func NewTracker(path []mgl32.Vec3, speed float32) *Tracker {
	t := &Tracker{speed: speed}
	t.SetPath(path)
	return t
}

// SetPath replaces the route and jumps to its first waypoint.
func (t *Tracker) SetPath(path []mgl32.Vec3) {
	t.path = append([]mgl32.Vec3(nil), path...)
	t.pathIndex = 0
	t.IsFollowingPath = false
	if len(t.path) == 0 {
		return
	}
	t.position = t.path[0]
	t.pathIndex = 1
	t.IsFollowingPath = len(t.path) > 1
}

// ClearPath stops the tracker where it is.
func (t *Tracker) ClearPath() {
	t.path = nil
	t.pathIndex = 0
	t.IsFollowingPath = false
}

// Update advances the tracker by one frame and returns its new position.
// Movement left over after reaching a waypoint carries on toward the next.
func (t *Tracker) Update() mgl32.Vec3 {
	remaining := t.speed
	for t.IsFollowingPath && remaining > 0 {
		if t.pathIndex >= len(t.path) {
			if !t.Loop {
				t.IsFollowingPath = false
				break
			}
			t.pathIndex = 0
		}

		target := t.path[t.pathIndex]
		delta := target.Sub(t.position)
		dist := delta.Len()
		if dist <= remaining {
			t.position = target
			remaining -= dist
			t.pathIndex++
			if !t.Loop && t.pathIndex >= len(t.path) {
				t.IsFollowingPath = false
			}
			// a loop of coincident waypoints would never consume movement
			if dist == 0 && t.Loop && t.allCoincident() {
				t.IsFollowingPath = false
			}
			continue
		}
		t.position = t.position.Add(delta.Mul(remaining / dist))
		remaining = 0
	}
	return t.position
}

func (t *Tracker) allCoincident() bool {
	for _, p := range t.path[1:] {
		if p != t.path[0] {
			return false
		}
	}
	return true
}

// Position returns the current tracked point.
func (t *Tracker) Position() mgl32.Vec3 {
	return t.position
}

// Path returns the current route.
func (t *Tracker) Path() []mgl32.Vec3 {
	return t.path
}

// PathIndex returns the index of the waypoint being approached.
func (t *Tracker) PathIndex() int {
	return t.pathIndex
}
