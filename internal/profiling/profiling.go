// Package profiling accumulates wall time per named section over one frame.
package profiling

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Section is the accumulated time and call count of one named section.
type Section struct {
	Name  string
	Total time.Duration
	Calls int
}

var (
	mu       sync.Mutex
	sections = make(map[string]*Section)
)

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("frontier.Extend")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s, ok := sections[name]
		if !ok {
			s = &Section{Name: name}
			sections[name] = s
		}
		s.Total += d
		s.Calls++
		mu.Unlock()
	}
}

// ResetFrame clears the totals. Call it at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(sections)
	mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(sections))
	for k, s := range sections {
		out[k] = s.Total
	}
	return out
}

// Sections returns the current sections, longest first.
func Sections() []Section {
	mu.Lock()
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		out = append(out, *s)
	}
	mu.Unlock()

	slices.SortFunc(out, func(a, b Section) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// TopN formats the n longest sections.
// Example: "frontier.BuildStep:4.2ms, frontier.Extend:2.1ms"
func TopN(n int) string {
	list := Sections()
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, s := range list[:n] {
		parts = append(parts, s.Name+":"+formatMs(s.Total))
	}
	return strings.Join(parts, ", ")
}

// Fields returns the n longest sections as duration log fields.
func Fields(n int) []zap.Field {
	list := Sections()
	n = min(n, len(list))
	fields := make([]zap.Field, 0, n)
	for _, s := range list[:n] {
		fields = append(fields, zap.Duration(s.Name, s.Total))
	}
	return fields
}

// formatMs keeps one decimal and drops ".0".
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000
	return strings.TrimSuffix(strconv.FormatFloat(ms, 'f', 1, 64), ".0") + "ms"
}
