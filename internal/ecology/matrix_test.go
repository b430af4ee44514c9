package ecology

import (
	"math"
	"testing"
)

func TestSymMatrixSetMirrors(t *testing.T) {
	m := newSymMatrix(3)
	m.set(0, 2, 1.5)
	m.set(1, 1, 2.0)

	if m.at(0, 2) != 1.5 || m.at(2, 0) != 1.5 {
		t.Errorf("off-diagonal write not mirrored: at(0,2)=%v at(2,0)=%v", m.at(0, 2), m.at(2, 0))
	}
	if m.at(1, 1) != 2.0 {
		t.Errorf("diagonal write lost: at(1,1)=%v", m.at(1, 1))
	}
}

func TestMinEigenvalueKnownMatrices(t *testing.T) {
	cases := []struct {
		name string
		rows [][]float64
		want float64
	}{
		{
			name: "identity",
			rows: [][]float64{{1, 0}, {0, 1}},
			want: 1,
		},
		{
			name: "positive definite",
			rows: [][]float64{{2, 1}, {1, 2}},
			want: 1,
		},
		{
			name: "indefinite",
			rows: [][]float64{{1, 2}, {2, 1}},
			want: -1,
		},
		{
			name: "three by three",
			rows: [][]float64{{2, -1, 0}, {-1, 2, -1}, {0, -1, 2}},
			want: 2 - math.Sqrt2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newSymMatrix(len(tc.rows))
			for i, row := range tc.rows {
				for j, v := range row {
					m.data[i*m.n+j] = v
				}
			}
			got := m.minEigenvalue()
			if math.Abs(got-tc.want) > 1e-8 {
				t.Errorf("minEigenvalue = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCholeskyReconstructs(t *testing.T) {
	m := newSymMatrix(3)
	vals := [][]float64{{4, 2, 0.6}, {2, 3, 0.4}, {0.6, 0.4, 2}}
	for i, row := range vals {
		for j, v := range row {
			m.data[i*m.n+j] = v
		}
	}

	l, ok := m.cholesky()
	if !ok {
		t.Fatal("cholesky failed on positive definite matrix")
	}

	// Check L*L^T == m.
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := 0.0
			for k := 0; k <= minIdx(i, j); k++ {
				sum += l.at(i, k) * l.at(j, k)
			}
			if math.Abs(sum-m.at(i, j)) > 1e-10 {
				t.Errorf("(L L^T)[%d][%d] = %v, want %v", i, j, sum, m.at(i, j))
			}
		}
	}
}

func TestCholeskyRejectsIndefinite(t *testing.T) {
	m := newSymMatrix(2)
	m.data = []float64{1, 2, 2, 1}
	if _, ok := m.cholesky(); ok {
		t.Error("cholesky succeeded on an indefinite matrix")
	}
}

func TestDiagonalLoadingRepairs(t *testing.T) {
	m := newSymMatrix(2)
	m.data = []float64{1, 2, 2, 1}

	min := m.minEigenvalue()
	if min >= 0 {
		t.Fatalf("expected negative eigenvalue, got %v", min)
	}
	m.addDiagonal(math.Abs(min) + 0.01)

	if got := m.minEigenvalue(); got < 0 {
		t.Errorf("repaired matrix still indefinite: min eigenvalue %v", got)
	}
	if _, ok := m.cholesky(); !ok {
		t.Error("repaired matrix should factorize")
	}
}

func minIdx(a, b int) int {
	if a < b {
		return a
	}
	return b
}
