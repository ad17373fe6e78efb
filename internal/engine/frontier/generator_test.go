package frontier

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/mesh"
	"github.com/Faultbox/midgard-terrain/internal/engine/parallel"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func newTestGenerator(t testing.TB, cfg Config, options ...Option) *Generator {
	t.Helper()
	opts := append([]Option{WithPool(parallel.Serial()), WithStrict(true)}, options...)
	g, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

// ring links paths so that each path's right neighbor is the next one.
func ring(paths ...*Path) []*Path {
	n := len(paths)
	for i, p := range paths {
		p.Right = paths[(i+1)%n]
		p.Left = paths[(i-1+n)%n]
	}
	return paths
}

func vertexAt(s *mesh.Store, pos mgl32.Vec3, register bool) mesh.VertexID {
	f := math.SeedFrame(mgl32.Vec3{0, 0, -1})
	id := s.NewVertex(mesh.Vertex{
		Position:  pos,
		Normal:    f.Normal,
		Tangent:   f.Tangent,
		Bitangent: f.Bitangent,
	})
	if register {
		s.AddVertex(id)
	}
	return id
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero edge", func(c *Config) { c.EdgeLength = 0 }},
		{"two paths", func(c *Config) { c.InitialPaths = 2 }},
		{"merge above split", func(c *Config) { c.MergeRatio = 2 }},
		{"blend above one", func(c *Config) { c.SmoothBlend = 1.5 }},
		{"negative jitter", func(c *Config) { c.Jitter = -1 }},
		{"zero seed direction", func(c *Config) { c.SeedDirection = mgl32.Vec3{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestClassifyPath(t *testing.T) {
	tests := []struct {
		name       string
		head, tail float32
		want       BuildAction
	}{
		{"head inside", 1, 100, Advance},
		{"both outside", 10, 10, Retreat},
		{"head outside tail inside", 10, 1, Station},
		{"head on boundary", 4, 10, Station},
		{"tail on boundary", 10, 4, Station},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyPath(tt.head, tt.tail, 4); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestGenerateModel_Seed(t *testing.T) {
	cfg := DefaultConfig()
	g := newTestGenerator(t, cfg)

	buf := g.GenerateModel()

	paths := g.Paths()
	if len(paths) != cfg.InitialPaths {
		t.Fatalf("expected %d paths, got %d", cfg.InitialPaths, len(paths))
	}
	for i, p := range paths {
		if p.Action != Advance {
			t.Errorf("path %d: expected advance, got %s", i, p.Action)
		}
	}

	s := g.Store()
	seed := s.Vertices()[0]
	if n := len(s.Vertex(seed).Neighbors()); n != cfg.InitialPaths {
		t.Errorf("expected seed with %d neighbors, got %d", cfg.InitialPaths, n)
	}
	if s.VertexCount() != cfg.InitialPaths+1 {
		t.Errorf("expected %d vertices, got %d", cfg.InitialPaths+1, s.VertexCount())
	}
	if s.FaceCount() != cfg.InitialPaths {
		t.Errorf("expected %d faces, got %d", cfg.InitialPaths, s.FaceCount())
	}
	if len(buf.Vertices) != cfg.InitialPaths+1 || len(buf.Indices) != 3*cfg.InitialPaths {
		t.Errorf("unexpected buffers: %d vertices, %d indices", len(buf.Vertices), len(buf.Indices))
	}

	// heads sit one edge from the seed, every tail is the seed
	for i, p := range paths {
		if p.Tail != seed {
			t.Errorf("path %d: expected seed tail", i)
		}
		if d := s.Position(p.Head).Len(); d < 0.999 || d > 1.001 {
			t.Errorf("path %d: expected head at distance 1, got %v", i, d)
		}
	}

	// every face winds the same way
	frame := math.SeedFrame(cfg.SeedDirection)
	s.EachFace(func(id mesh.FaceID, f *mesh.Face) {
		if f.Normal.Dot(frame.Normal) <= 0 {
			t.Errorf("%s: normal %v faces away from %v", id, f.Normal, frame.Normal)
		}
	})

	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if st := g.Stats(); st.Step != 1 || st.Last.Faces != cfg.InitialPaths {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestGenerateModel_Resets(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	g.GenerateModel()
	g.UpdateMesh(mgl32.Vec3{}, 3)
	g.GenerateModel()

	if g.Stats().Step != 1 {
		t.Errorf("expected step counter reset, got %d", g.Stats().Step)
	}
	if g.Store().VertexCount() != 7 {
		t.Errorf("expected fresh seed surface with 7 vertices, got %d", g.Store().VertexCount())
	}
}

func TestMerge_Threshold(t *testing.T) {
	cfg := DefaultConfig()
	limit := cfg.mergeDistSq()

	tests := []struct {
		name   string
		distSq float32
		merged bool
	}{
		{"half threshold merges", 0.5 * limit, true},
		{"double threshold keeps both", 2 * limit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(t, cfg)
			s := g.Store()

			d := mgl32.Vec3{1, 0, 0}.Mul(math32.Sqrt(tt.distSq))
			tailA := vertexAt(s, mgl32.Vec3{0, 0, 1}, true)
			tailB := vertexAt(s, mgl32.Vec3{1, 0, 1}, true)
			headA := vertexAt(s, mgl32.Vec3{}, false)
			headB := vertexAt(s, d, false)
			other := vertexAt(s, mgl32.Vec3{0, 0, 3}, true)

			p := &Path{Head: headA, Tail: tailA, Action: Advance}
			q := &Path{Head: headB, Tail: tailB, Action: Advance}
			r := &Path{Head: other, Tail: tailA, Action: Station}
			g.paths = ring(p, q, r)

			g.merge()

			if got := q.Head == p.Head; got != tt.merged {
				t.Fatalf("expected merged=%v, got %v", tt.merged, got)
			}
			if !tt.merged {
				if g.counts.Merged != 0 {
					t.Errorf("expected no merges, got %d", g.counts.Merged)
				}
				return
			}
			if s.Valid(headB) {
				t.Error("expected removed head to be freed")
			}
			want := d.Mul(0.5)
			if got := s.Position(headA); got.Sub(want).Len() > 1e-6 {
				t.Errorf("expected averaged head %v, got %v", want, got)
			}
			if g.counts.Merged != 1 {
				t.Errorf("expected 1 merge, got %d", g.counts.Merged)
			}
		})
	}
}

func TestMerge_IgnoresStationaryPaths(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	s := g.Store()

	tailA := vertexAt(s, mgl32.Vec3{0, 0, 1}, true)
	tailB := vertexAt(s, mgl32.Vec3{1, 0, 1}, true)
	headA := vertexAt(s, mgl32.Vec3{}, true)
	headB := vertexAt(s, mgl32.Vec3{0.01, 0, 0}, true)
	other := vertexAt(s, mgl32.Vec3{0, 0, 3}, true)

	p := &Path{Head: headA, Tail: tailA, Action: Advance}
	q := &Path{Head: headB, Tail: tailB, Action: Station}
	r := &Path{Head: other, Tail: tailA, Action: Station}
	g.paths = ring(p, q, r)

	g.merge()

	if p.Head == q.Head {
		t.Error("expected stationary path to be immune to merging")
	}
}

func TestSplit_Threshold(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	s := g.Store()

	tailA := vertexAt(s, mgl32.Vec3{-1, 0, -1}, true)
	tailB := vertexAt(s, mgl32.Vec3{1, 0, -1}, true)
	headA := vertexAt(s, mgl32.Vec3{-1.5, 0, 0}, false)
	headB := vertexAt(s, mgl32.Vec3{1.5, 0, 0}, false)
	other := vertexAt(s, mgl32.Vec3{0, 0, -3}, true)

	p := &Path{Head: headA, Tail: tailA, Heading: mgl32.Vec3{0, 0, 1}, Action: Advance}
	q := &Path{Head: headB, Tail: tailB, Heading: mgl32.Vec3{0, 0, 1}, Action: Advance}
	r := &Path{Head: other, Tail: tailB, Action: Station}
	g.paths = ring(p, q, r)

	g.split()

	if len(g.paths) != 4 {
		t.Fatalf("expected 4 paths, got %d", len(g.paths))
	}
	n := p.Right
	if n == q || n.Right != q || q.Left != n || n.Left != p {
		t.Fatal("expected the new path spliced between the pair")
	}
	if err := checkRing(g.paths); err != nil {
		t.Errorf("checkRing: %v", err)
	}

	limit := g.cfg.splitDistSq()
	head := s.Position(n.Head)
	for _, pos := range []mgl32.Vec3{s.Position(headA), s.Position(headB)} {
		if d := math.DistSq(head, pos); d > limit {
			t.Errorf("expected head distance squared <= %v, got %v", limit, d)
		}
	}
	if n.Tail != tailA {
		t.Error("expected equidistant tails to resolve to the left tail")
	}
	if n.Heading.Sub(mgl32.Vec3{0, 0, 1}).Len() > 1e-6 {
		t.Errorf("expected heading away from the tails, got %v", n.Heading)
	}
	if n.Action != Advance {
		t.Errorf("expected new path to advance, got %s", n.Action)
	}
}

func TestSplit_PicksNearerTail(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	s := g.Store()

	tailA := vertexAt(s, mgl32.Vec3{-3, 0, -1}, true)
	tailB := vertexAt(s, mgl32.Vec3{0.5, 0, -1}, true)
	headA := vertexAt(s, mgl32.Vec3{-1.5, 0, 0}, false)
	headB := vertexAt(s, mgl32.Vec3{1.5, 0, 0}, false)
	other := vertexAt(s, mgl32.Vec3{0, 0, -3}, true)

	p := &Path{Head: headA, Tail: tailA, Action: Advance}
	q := &Path{Head: headB, Tail: tailB, Action: Advance}
	r := &Path{Head: other, Tail: tailB, Action: Station}
	g.paths = ring(p, q, r)

	g.split()

	if p.Right.Tail != tailB {
		t.Error("expected the nearer right tail")
	}
}

func TestBuildStep_FullRetreat(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	s := g.Store()

	center := vertexAt(s, mgl32.Vec3{}, true)
	rim := make([]mesh.VertexID, 3)
	paths := make([]*Path, 3)
	dirs := []mgl32.Vec3{{1, 0, 0}, {-0.5, 0, 0.866}, {-0.5, 0, -0.866}}
	for i, d := range dirs {
		rim[i] = vertexAt(s, d, true)
		paths[i] = &Path{Head: rim[i], Tail: center, Heading: d, Action: Retreat}
	}
	for i := range rim {
		if _, err := s.AddFace(rim[i], center, rim[(i+1)%3]); err != nil {
			t.Fatalf("AddFace: %v", err)
		}
	}
	g.paths = ring(paths...)

	if s.VertexCount() != 4 || s.FaceCount() != 3 {
		t.Fatalf("unexpected fan: %d vertices, %d faces", s.VertexCount(), s.FaceCount())
	}

	g.BuildStep()

	if s.VertexCount() != 1 {
		t.Errorf("expected 1 vertex, got %d", s.VertexCount())
	}
	if s.FaceCount() != 0 {
		t.Errorf("expected 0 faces, got %d", s.FaceCount())
	}
	if got := g.Stats().Last.Collapsed; got != 3 {
		t.Errorf("expected 3 collapses, got %d", got)
	}
	if len(g.paths) != MinRingSize {
		t.Fatalf("expected ring of %d paths, got %d", MinRingSize, len(g.paths))
	}
	for i, p := range g.paths {
		if p.Head != center || p.Tail != center {
			t.Errorf("path %d: expected head and tail at the center", i)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if buf := g.Buffers(); len(buf.Vertices) != 1 || len(buf.Indices) != 0 {
		t.Errorf("unexpected buffers: %d vertices, %d indices", len(buf.Vertices), len(buf.Indices))
	}
}

func TestRetreat_SelectsOppositeNeighbor(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	s := g.Store()

	// a strip: back - tail - head, with a side vertex
	back := vertexAt(s, mgl32.Vec3{0, 0, 2}, true)
	tail := vertexAt(s, mgl32.Vec3{0, 0, 1}, true)
	head := vertexAt(s, mgl32.Vec3{0, 0, 0}, true)
	side := vertexAt(s, mgl32.Vec3{1, 0, 1}, true)
	for _, f := range [][3]mesh.VertexID{{head, tail, side}, {tail, back, side}} {
		if _, err := s.AddFace(f[0], f[1], f[2]); err != nil {
			t.Fatalf("AddFace: %v", err)
		}
	}

	p := &Path{Head: head, Tail: tail, Heading: mgl32.Vec3{0, 0, -1}, Action: Retreat}
	q := &Path{Head: side, Tail: back, Action: Station}
	r := &Path{Head: back, Tail: side, Action: Station}
	g.paths = ring(p, q, r)

	g.retreat()

	if p.Head != tail {
		t.Fatal("expected head to move onto the tail")
	}
	if p.Tail != back {
		t.Error("expected new tail on the far side of the heading")
	}
	if s.Valid(head) {
		t.Error("expected old head to be collapsed")
	}
}

func TestPrune_FoldsSharedHeads(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	s := g.Store()

	shared := vertexAt(s, mgl32.Vec3{}, true)
	tails := make([]mesh.VertexID, 4)
	for i := range tails {
		tails[i] = vertexAt(s, mgl32.Vec3{float32(i), 0, 1}, true)
	}
	a := &Path{Head: shared, Tail: tails[0], Heading: mgl32.Vec3{1, 0, 0}, Action: Station}
	b := &Path{Head: shared, Tail: tails[1], Heading: mgl32.Vec3{0, 0, 1}, Action: Station}
	c := &Path{Head: tails[2], Tail: tails[3], Action: Station}
	d := &Path{Head: tails[3], Tail: tails[2], Action: Station}
	g.paths = ring(a, b, c, d)

	g.prune()

	if len(g.paths) != 3 {
		t.Fatalf("expected 3 paths, got %d", len(g.paths))
	}
	if g.paths[0] != b {
		t.Error("expected the right path of the pair to survive")
	}
	want := mgl32.Vec3{1, 0, 1}.Normalize()
	if b.Heading.Sub(want).Len() > 1e-6 {
		t.Errorf("expected folded heading %v, got %v", want, b.Heading)
	}
	if err := checkRing(g.paths); err != nil {
		t.Errorf("checkRing: %v", err)
	}
}

func TestPrune_KeepsMinimumRing(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	s := g.Store()

	v := vertexAt(s, mgl32.Vec3{}, true)
	g.paths = ring(
		&Path{Head: v, Tail: v},
		&Path{Head: v, Tail: v},
		&Path{Head: v, Tail: v},
	)

	g.prune()

	if len(g.paths) != MinRingSize {
		t.Errorf("expected %d paths, got %d", MinRingSize, len(g.paths))
	}
}

func TestUpdateMesh_Converges(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	g.GenerateModel()

	center := mgl32.Vec3{}
	const radius = 3

	converged := false
	for i := 0; i < 200; i++ {
		g.UpdateMesh(center, radius)
		if err := g.CheckRing(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if st := g.Stats(); st.Advancing == 0 && st.Retreating == 0 {
			converged = true
			break
		}
	}
	if !converged {
		t.Fatal("expected the surface to stop growing")
	}

	before := g.Stats()
	g.UpdateMesh(center, radius)
	after := g.Stats()

	if after.Vertices != before.Vertices || after.Faces != before.Faces || after.Paths != before.Paths {
		t.Errorf("expected a no-op step, got %+v then %+v", before, after)
	}

	s := g.Store()
	for i, p := range g.Paths() {
		if d := math.DistSq(s.Position(p.Head), center); d < radius*radius {
			t.Errorf("path %d: head still inside the radius (%v)", i, d)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestUpdateMesh_MovingCenter(t *testing.T) {
	cfg := DefaultConfig()
	pool := parallel.New(parallel.WithWorkers(4), parallel.WithGrain(1))
	defer pool.Close()
	g := newTestGenerator(t, cfg, WithStrict(false), WithPool(pool))
	g.GenerateModel()

	frame := math.SeedFrame(cfg.SeedDirection)
	for i := 0; i < 60; i++ {
		center := frame.Bitangent.Mul(0.3 * float32(i))
		g.UpdateMesh(center, 4)
		if err := g.Validate(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if order := g.Ring(); len(order) != len(g.Paths()) {
		t.Errorf("expected the ring to visit all %d paths, got %d", len(g.Paths()), len(order))
	}
}

func TestTriangulate_RegistersFullyMergedHead(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	s := g.Store()

	tails := []mesh.VertexID{
		vertexAt(s, mgl32.Vec3{2, 0, 0}, true),
		vertexAt(s, mgl32.Vec3{-1, 0, 1.732}, true),
		vertexAt(s, mgl32.Vec3{-1, 0, -1.732}, true),
	}
	heads := []mesh.VertexID{
		vertexAt(s, mgl32.Vec3{0.1, 0, 0}, false),
		vertexAt(s, mgl32.Vec3{-0.05, 0, 0.087}, false),
		vertexAt(s, mgl32.Vec3{-0.05, 0, -0.087}, false),
	}
	paths := make([]*Path, 3)
	for i := range paths {
		paths[i] = &Path{Head: heads[i], Tail: tails[i], Action: Advance}
	}
	g.paths = ring(paths...)

	g.merge()

	shared := paths[0].Head
	for i, p := range paths {
		if p.Head != shared {
			t.Fatalf("path %d: expected every head merged into one", i)
		}
	}
	if g.counts.Merged != 2 {
		t.Errorf("expected 2 merges, got %d", g.counts.Merged)
	}

	g.triangulate()

	if !s.Registered(shared) {
		t.Error("expected the shared head to be registered")
	}
	if g.counts.Faces != 3 {
		t.Errorf("expected 3 faces, got %d", g.counts.Faces)
	}
	if buf := terrain.BuildMesh(s); buf.Skipped != 0 || len(buf.Indices) != 9 {
		t.Errorf("expected 9 indices and no skipped faces, got %d and %d", len(buf.Indices), buf.Skipped)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestUpdateMesh_StrictAlongCurve(t *testing.T) {
	cfg := DefaultConfig()
	g := newTestGenerator(t, cfg)
	g.GenerateModel()

	// the center moves one unit per step on an arc through the seed
	frame := math.SeedFrame(cfg.SeedDirection)
	const arc = 12
	for i := 0; i < 300; i++ {
		a := float32(i) / arc
		center := frame.Tangent.Mul(arc * math32.Sin(a)).
			Add(frame.Bitangent.Mul(arc * (1 - math32.Cos(a))))
		g.UpdateMesh(center, 5)
	}

	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if buf := g.Buffers(); buf.Skipped != 0 {
		t.Errorf("expected no skipped faces, got %d", buf.Skipped)
	}
}

func TestGenerator_CloseOwnedPool(t *testing.T) {
	g, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.GenerateModel()
	g.Close()

	// a closed pool runs loops on the caller
	g.UpdateMesh(mgl32.Vec3{}, 3)
	if g.Stats().Step != 2 {
		t.Errorf("expected step 2, got %d", g.Stats().Step)
	}
}

func TestUpdateMesh_DeterministicAcrossPools(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Jitter = 0.2
	cfg.RandomSeed = 7

	run := func(pool *parallel.Pool) []mgl32.Vec3 {
		g := newTestGenerator(t, cfg, WithPool(pool), WithStrict(false))
		g.GenerateModel()
		for i := 0; i < 12; i++ {
			g.UpdateMesh(mgl32.Vec3{}, 5)
		}
		var out []mgl32.Vec3
		g.Store().EachVertex(func(_ mesh.VertexID, v *mesh.Vertex) {
			out = append(out, v.Position)
		})
		return out
	}

	serial := run(parallel.Serial())
	pool := parallel.New(parallel.WithWorkers(4), parallel.WithGrain(1))
	defer pool.Close()
	pooled := run(pool)

	if len(serial) != len(pooled) {
		t.Fatalf("expected %d vertices, got %d", len(serial), len(pooled))
	}
	for i := range serial {
		if serial[i] != pooled[i] {
			t.Fatalf("vertex %d: serial %v, pooled %v", i, serial[i], pooled[i])
		}
	}
}

func TestJitter_Reproducible(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Jitter = 0.3
	g := newTestGenerator(t, cfg)
	g.step = 4

	a, b := g.jitter(2), g.jitter(2)
	if a != b {
		t.Errorf("expected identical jitter, got %v and %v", a, b)
	}
	if a < -cfg.Jitter || a >= cfg.Jitter {
		t.Errorf("expected jitter in [-%v, %v), got %v", cfg.Jitter, cfg.Jitter, a)
	}

	g.step = 5
	if c := g.jitter(2); c == a {
		t.Errorf("expected jitter to change with the step, got %v twice", c)
	}
}

func TestRing_WalksRight(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	g.GenerateModel()

	order := g.Ring()
	if len(order) != 6 {
		t.Fatalf("expected 6 paths, got %d", len(order))
	}
	for i, p := range order {
		if next := order[(i+1)%len(order)]; p.Right != next {
			t.Errorf("path %d: expected right neighbor at ring position %d", i, (i+1)%len(order))
		}
	}
}

func BenchmarkBuildStep(b *testing.B) {
	pool := parallel.New()
	defer pool.Close()
	g := newTestGenerator(b, DefaultConfig(), WithStrict(false), WithPool(pool))
	g.GenerateModel()
	frame := math.SeedFrame(g.Config().SeedDirection)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// sweep back and forth so the surface keeps growing and shrinking
		x := float32(i%80) - 40
		if x < 0 {
			x = -x
		}
		g.UpdateMesh(frame.Bitangent.Mul(x*0.25), 8)
	}
}
