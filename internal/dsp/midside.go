package dsp

// Matrix2 is a fixed 2x2 channel matrix. Mid/side routing is expressed with
// explicit matrices so the sign convention stays unambiguous and testable in
// isolation from the rest of the chain.
type Matrix2 [2][2]float64

// EncodeMS maps L/R to mid/side: mid = 0.5(L+R), side = 0.5(L-R).
var EncodeMS = Matrix2{{0.5, 0.5}, {0.5, -0.5}}

// DecodeMS maps mid/side back to L/R: L = mid + side, R = mid - side.
// The side channel contributes with inverted sign on the right.
var DecodeMS = Matrix2{{1, 1}, {1, -1}}

// Apply multiplies the matrix with the column vector (a, b).
func (m Matrix2) Apply(a, b float64) (float64, float64) {
	return m[0][0]*a + m[0][1]*b, m[1][0]*a + m[1][1]*b
}

// ProcessBlock applies the matrix to the channel pair in place.
func (m Matrix2) ProcessBlock(x, y []float64) {
	for i := range x {
		x[i], y[i] = m.Apply(x[i], y[i])
	}
}
