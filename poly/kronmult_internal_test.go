package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/equad/matrix"
)

// kron forms A ⊗ B explicitly.
func kron(t *testing.T, A, B *matrix.Dense) *matrix.Dense {
	t.Helper()
	ar, ac := A.Shape()
	br, bc := B.Shape()
	K, err := matrix.NewDense(ar*br, ac*bc)
	require.NoError(t, err)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			a := A.RawRow(i)[j]
			for p := 0; p < br; p++ {
				for q := 0; q < bc; q++ {
					K.RawRow(i*br + p)[j*bc+q] = a * B.RawRow(p)[q]
				}
			}
		}
	}

	return K
}

func TestKronMult_MatchesExplicitProduct(t *testing.T) {
	t.Parallel()

	A, err := matrix.NewDenseRows([][]float64{{1, 2}, {0, -1}, {3, 0.5}})
	require.NoError(t, err)
	B, err := matrix.NewDenseRows([][]float64{{2, 0, 1}, {-1, 4, 0}})
	require.NoError(t, err)
	C, err := matrix.NewDenseRows([][]float64{{1, -2}, {0.5, 3}})
	require.NoError(t, err)

	v := make([]float64, 2*3*2)
	for i := range v {
		v[i] = float64(i%5) - 1.5
	}

	want, err := matrix.MatVec(kron(t, kron(t, A, B), C), v)
	require.NoError(t, err)
	got := kronMult([]*matrix.Dense{A, B, C}, v)
	assert.InDeltaSlice(t, want, got, 1e-12)
	assert.Len(t, got, 3*2*2)
}

func TestNodeSet_MergesCoincidentNodes(t *testing.T) {
	t.Parallel()

	ns := newNodeSet(2)
	assert.Equal(t, 0, ns.add([]float64{0, 1}))
	assert.Equal(t, 1, ns.add([]float64{0.5, 1}))
	assert.Equal(t, 0, ns.add([]float64{1e-17, 1}))
	assert.Equal(t, 2, ns.len())
	assert.Equal(t, []float64{0.5, 1}, ns.point(1))
}
