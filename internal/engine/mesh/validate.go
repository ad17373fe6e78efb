package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Validate checks the store invariants and returns every violation found:
// neighbor symmetry, face/vertex consistency, dense stable indices and
// finite positions.
func (s *Store) Validate() error {
	var errs []error

	for i, id := range s.order {
		v := s.Vertex(id)
		if v == nil {
			errs = append(errs, fmt.Errorf("order[%d]: %s is not live", i, id))
			continue
		}
		if v.Index != i {
			errs = append(errs, fmt.Errorf("%s: index %d, want %d", id, v.Index, i))
		}
	}

	for slot, vs := range s.verts {
		if vs.v == nil {
			continue
		}
		id := VertexID{slot: uint32(slot), gen: vs.gen}
		v := vs.v
		if !math.IsFinite(v.Position) {
			errs = append(errs, fmt.Errorf("%s: non-finite position %v", id, v.Position))
		}
		for _, n := range v.neighbors {
			nv := s.Vertex(n)
			switch {
			case n == id:
				errs = append(errs, fmt.Errorf("%s: lists itself as neighbor", id))
			case nv == nil:
				errs = append(errs, fmt.Errorf("%s: dangling neighbor %s", id, n))
			case !nv.HasNeighbor(id):
				errs = append(errs, fmt.Errorf("%s: neighbor %s does not link back", id, n))
			}
		}
		for _, fid := range v.faces {
			f := s.Face(fid)
			if f == nil {
				errs = append(errs, fmt.Errorf("%s: dangling face %s", id, fid))
			} else if !f.Has(id) {
				errs = append(errs, fmt.Errorf("%s: lists %s which does not reference it", id, fid))
			}
		}
	}

	for i, fid := range s.faceOrder {
		f := s.Face(fid)
		if f == nil {
			errs = append(errs, fmt.Errorf("faceOrder[%d]: %s is not live", i, fid))
			continue
		}
		if f.pos != i {
			errs = append(errs, fmt.Errorf("%s: position %d, want %d", fid, f.pos, i))
		}
		a, b, c := f.Vertices[0], f.Vertices[1], f.Vertices[2]
		if a == b || b == c || a == c {
			errs = append(errs, fmt.Errorf("%s: repeated vertex in %v", fid, f.Vertices))
		}
		for _, vid := range f.Vertices {
			v := s.Vertex(vid)
			if v == nil {
				errs = append(errs, fmt.Errorf("%s: references dead vertex %s", fid, vid))
				continue
			}
			if indexOf(v.faces, fid) < 0 {
				errs = append(errs, fmt.Errorf("%s: missing from incident faces of %s", fid, vid))
			}
		}
		if !s.AreNeighbors(a, b) || !s.AreNeighbors(b, c) || !s.AreNeighbors(a, c) {
			errs = append(errs, fmt.Errorf("%s: corners are not pairwise neighbors", fid))
		}
	}

	return errors.Join(errs...)
}
