package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGroupValidates(t *testing.T) {
	g, err := NewGroup([]int{3, 1, 2}, 4)
	assert.NoError(t, err)
	assert.Equal(t, 3, g.Size())
	assert.Equal(t, []int{3, 1, 2}, g.Members(), "order preserved")

	_, err = NewGroup([]int{0, 4}, 4)
	assert.Error(t, err, "out of range")

	_, err = NewGroup([]int{0, -1}, 4)
	assert.Error(t, err, "negative index")

	_, err = NewGroup([]int{2, 1, 2}, 4)
	assert.Error(t, err, "duplicate member")
}

func TestGroupCopiesMembers(t *testing.T) {
	src := []int{0, 1}
	g, err := NewGroup(src, 4)
	assert.NoError(t, err)
	src[0] = 3
	assert.Equal(t, 0, g.Members()[0], "group must not alias caller slice")
}

func TestAllGroup(t *testing.T) {
	g := All(5)
	assert.Equal(t, 5, g.Size())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, g.Members())
}

func TestNewBoxReciprocals(t *testing.T) {
	b, err := NewBox(10, 20, 40)
	assert.NoError(t, err)
	for d := 0; d < 3; d++ {
		assert.Equal(t, 1/b.L[d], b.Inv[d], "reciprocal invariant")
	}
	assert.Equal(t, 8000.0, b.Volume())

	_, err = NewBox(10, 0, 10)
	assert.Error(t, err, "zero edge")
	_, err = NewBox(-1, 1, 1)
	assert.Error(t, err, "negative edge")
}

func TestBoxScaledRecomputesReciprocals(t *testing.T) {
	b, err := Cube(10)
	assert.NoError(t, err)
	s, err := b.Scaled(2)
	assert.NoError(t, err)
	for d := 0; d < 3; d++ {
		assert.Equal(t, 20.0, s.L[d])
		assert.Equal(t, 1/s.L[d], s.Inv[d])
	}
}

func TestBoxWrap(t *testing.T) {
	b, err := Cube(10)
	assert.NoError(t, err)

	x, shift := b.Wrap(5.0, 0)
	assert.Equal(t, -5.0, x, "upper boundary wraps down")
	assert.Equal(t, int32(1), shift)

	x, shift = b.Wrap(-12.0, 1)
	assert.Equal(t, -2.0, x)
	assert.Equal(t, int32(-1), shift)

	x, shift = b.Wrap(3.0, 2)
	assert.Equal(t, 3.0, x, "interior point untouched")
	assert.Equal(t, int32(0), shift)
}

func TestStoreAccounting(t *testing.T) {
	st := NewStore(3)
	assert.Equal(t, 3, st.Count())

	st.Mass = []float64{1, 2, 3}
	st.Vel[0] = [4]float64{1, 0, 0, 0}
	st.Vel[1] = [4]float64{0, 2, 0, 0}
	st.Vel[2] = [4]float64{0, 0, -1, 0}

	p := st.Momentum()
	assert.Equal(t, [3]float64{1, 4, -3}, p)

	// 1*1 + 2*4 + 3*1
	assert.Equal(t, 12.0, st.KineticTwice())
}
