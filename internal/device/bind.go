package device

import "fmt"

// Read-only bindings snapshot an input array before a launch, standing in
// for the texture-cache views of the original hardware path. All reads
// through a view observe pre-launch state, so a kernel that writes a field
// directly can never see its own (or a sibling worker's) in-flight write by
// reading back through the view.
//
// Binding fails, before any worker runs, when the source array cannot cover
// the requested live count.

type Vec4View struct {
	data [][4]float64
}

func (v Vec4View) At(i int) [4]float64 { return v.data[i] }

type Vec3View struct {
	data [][3]float64
}

func (v Vec3View) At(i int) [3]float64 { return v.data[i] }

type ScalarView struct {
	data []float64
}

func (v ScalarView) At(i int) float64 { return v.data[i] }

type IndexView struct {
	data []int
}

func (v IndexView) At(i int) int { return v.data[i] }

// BindVec4 snapshots the first n records of src.
func BindVec4(name string, src [][4]float64, n int) (Vec4View, error) {
	if len(src) < n {
		return Vec4View{}, bindErr(name, len(src), n)
	}
	data := make([][4]float64, n)
	copy(data, src[:n])
	return Vec4View{data: data}, nil
}

// BindVec3 snapshots the first n records of src.
func BindVec3(name string, src [][3]float64, n int) (Vec3View, error) {
	if len(src) < n {
		return Vec3View{}, bindErr(name, len(src), n)
	}
	data := make([][3]float64, n)
	copy(data, src[:n])
	return Vec3View{data: data}, nil
}

// BindScalar snapshots the first n elements of src.
func BindScalar(name string, src []float64, n int) (ScalarView, error) {
	if len(src) < n {
		return ScalarView{}, bindErr(name, len(src), n)
	}
	data := make([]float64, n)
	copy(data, src[:n])
	return ScalarView{data: data}, nil
}

// BindIndex snapshots the first n elements of an index list.
func BindIndex(name string, src []int, n int) (IndexView, error) {
	if len(src) < n {
		return IndexView{}, bindErr(name, len(src), n)
	}
	data := make([]int, n)
	copy(data, src[:n])
	return IndexView{data: data}, nil
}

func bindErr(name string, have, want int) error {
	return fmt.Errorf("%w: %s has %d elements, need %d", ErrBindShort, name, have, want)
}
