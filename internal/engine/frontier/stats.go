package frontier

// StepCounts tallies the topology changes of one build step.
type StepCounts struct {
	Faces      int
	Degenerate int
	Merged     int
	Split      int
	Collapsed  int
	Pruned     int
}

// Stats is a snapshot of the generator state after the last build step.
type Stats struct {
	Step       uint64
	Paths      int
	Vertices   int
	Faces      int
	Advancing  int
	Retreating int
	Stationary int
	Last       StepCounts
}

// Stats returns the current counts.
func (g *Generator) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := Stats{
		Step:     g.step,
		Paths:    len(g.paths),
		Vertices: g.store.VertexCount(),
		Faces:    g.store.FaceCount(),
		Last:     g.counts,
	}
	for _, p := range g.paths {
		switch p.Action {
		case Advance:
			st.Advancing++
		case Retreat:
			st.Retreating++
		default:
			st.Stationary++
		}
	}
	return st
}
