package background

// divFloor divides rounding toward negative infinity (y > 0).
func divFloor(x, y int) int {
	q := x / y
	if x%y != 0 && x < 0 {
		q--
	}
	return q
}

// divCeil divides rounding toward positive infinity (y > 0).
func divCeil(x, y int) int {
	q := x / y
	if x%y != 0 && x > 0 {
		q++
	}
	return q
}

// remEuclid returns x mod y in [0, y).
func remEuclid(x, y int) int {
	r := x % y
	if r < 0 {
		r += y
	}
	return r
}
