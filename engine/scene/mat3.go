package scene

// Mat3 is a column-major 3x3 matrix for 2D affine transforms (GLSL mat3).
type Mat3 [9]float32

func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

func Translate3(x, y float32) Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		x, y, 1,
	}
}

func Scale3(x, y float32) Mat3 {
	return Mat3{
		x, 0, 0,
		0, y, 0,
		0, 0, 1,
	}
}

// Mul returns a*b.
func (a Mat3) Mul(b Mat3) Mat3 {
	var out Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			var s float32
			for k := 0; k < 3; k++ {
				s += a[row+3*k] * b[k+3*col]
			}
			out[row+3*col] = s
		}
	}
	return out
}

// Apply transforms the point (x, y, 1).
func (a Mat3) Apply(x, y float32) (float32, float32) {
	return a[0]*x + a[3]*y + a[6], a[1]*x + a[4]*y + a[7]
}
