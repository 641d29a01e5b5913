package particle

import "fmt"

// Group is an ordered list of particle indices selecting which particles an
// integration kernel touches. Membership is validated once at construction:
// every index must lie in [0, n) and no index may appear twice. Uniqueness is
// what makes per-worker writes inside a launch race-free, so it is enforced
// here rather than re-checked on every kernel call.
type Group struct {
	members []int
}

// NewGroup validates and wraps a member index list for a store of n particles.
// The member slice is copied.
func NewGroup(members []int, n int) (*Group, error) {
	seen := make(map[int]struct{}, len(members))
	for pos, idx := range members {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("particle: group member %d out of range [0,%d)", idx, n)
		}
		if _, dup := seen[idx]; dup {
			return nil, fmt.Errorf("particle: duplicate group member %d at position %d", idx, pos)
		}
		seen[idx] = struct{}{}
	}
	m := make([]int, len(members))
	copy(m, members)
	return &Group{members: m}, nil
}

// All returns the group containing every particle of an n-particle store.
func All(n int) *Group {
	m := make([]int, n)
	for i := range m {
		m[i] = i
	}
	return &Group{members: m}
}

func (g *Group) Size() int { return len(g.members) }

// Members returns the backing index list. Callers must treat it as read-only.
func (g *Group) Members() []int { return g.members }
