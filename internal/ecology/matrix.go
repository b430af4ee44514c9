// Dense symmetric matrix helpers for the shock covariance structure:
// Jacobi eigenvalue sweep for the positive-semi-definite check and a
// Cholesky factorization for drawing correlated normal vectors.
package ecology

import "math"

// symMatrix is a dense n×n symmetric matrix in row-major order.
type symMatrix struct {
	n    int
	data []float64
}

func newSymMatrix(n int) *symMatrix {
	return &symMatrix{n: n, data: make([]float64, n*n)}
}

func (m *symMatrix) at(i, j int) float64 { return m.data[i*m.n+j] }

func (m *symMatrix) set(i, j int, v float64) {
	m.data[i*m.n+j] = v
	m.data[j*m.n+i] = v
}

func (m *symMatrix) clone() *symMatrix {
	c := newSymMatrix(m.n)
	copy(c.data, m.data)
	return c
}

// minEigenvalue computes the smallest eigenvalue via cyclic Jacobi
// rotations. The matrices here are small (tens of patches), so the O(n^3)
// sweep cost is irrelevant.
func (m *symMatrix) minEigenvalue() float64 {
	a := m.clone()
	n := a.n
	if n == 1 {
		return a.at(0, 0)
	}

	const maxSweeps = 50
	const tol = 1e-12

	for sweep := 0; sweep < maxSweeps; sweep++ {
		off := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				off += a.at(i, j) * a.at(i, j)
			}
		}
		if off < tol {
			break
		}

		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				apq := a.at(p, q)
				if math.Abs(apq) < tol {
					continue
				}
				app := a.at(p, p)
				aqq := a.at(q, q)

				theta := (aqq - app) / (2.0 * apq)
				t := 1.0 / (math.Abs(theta) + math.Sqrt(theta*theta+1.0))
				if theta < 0 {
					t = -t
				}
				c := 1.0 / math.Sqrt(t*t+1.0)
				s := t * c

				a.set(p, p, app-t*apq)
				a.set(q, q, aqq+t*apq)
				a.set(p, q, 0)

				for k := 0; k < n; k++ {
					if k == p || k == q {
						continue
					}
					akp := a.at(k, p)
					akq := a.at(k, q)
					a.set(k, p, c*akp-s*akq)
					a.set(k, q, s*akp+c*akq)
				}
			}
		}
	}

	min := a.at(0, 0)
	for i := 1; i < n; i++ {
		if a.at(i, i) < min {
			min = a.at(i, i)
		}
	}
	return min
}

// addDiagonal adds v to every diagonal element.
func (m *symMatrix) addDiagonal(v float64) {
	for i := 0; i < m.n; i++ {
		m.data[i*m.n+i] += v
	}
}

// cholesky returns the lower-triangular factor L with L*L^T = m, or false
// if the matrix is not positive definite.
func (m *symMatrix) cholesky() (*symMatrix, bool) {
	n := m.n
	l := newSymMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := m.at(i, j)
			for k := 0; k < j; k++ {
				sum -= l.at(i, k) * l.at(j, k)
			}
			if i == j {
				if sum <= 0 {
					return nil, false
				}
				l.data[i*n+j] = math.Sqrt(sum)
			} else {
				l.data[i*n+j] = sum / l.at(j, j)
			}
		}
	}
	return l, true
}

// mulVec computes y = L*x treating only the lower triangle as populated.
func (l *symMatrix) mulVecLower(x, y []float64) {
	n := l.n
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j <= i; j++ {
			sum += l.data[i*n+j] * x[j]
		}
		y[i] = sum
	}
}
