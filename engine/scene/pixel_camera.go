package scene

// PixelPerfectCamera maps pixel coordinates [0,w]x[0,h] (bottom-left origin)
// onto clip space [-1,1]x[-1,1].
type PixelPerfectCamera struct{}

func (PixelPerfectCamera) View() Mat3 { return Identity3() }

func (PixelPerfectCamera) Projection(w, h float32) Mat3 {
	if w <= 0 || h <= 0 {
		return Identity3()
	}
	return Translate3(-1, -1).Mul(Scale3(2/w, 2/h))
}

// Uniforms writes u_projection_matrix and u_view_matrix into dst.
func (c PixelPerfectCamera) Uniforms(dst map[string]any, w, h float32) {
	dst["u_projection_matrix"] = [9]float32(c.Projection(w, h))
	dst["u_view_matrix"] = [9]float32(c.View())
}
