package util

// Lerp realiza interpolação linear entre dois floats.
func Lerp(start, end, amount float32) float32 {
	return start + amount*(end-start)
}

// Clamp limita um valor ao intervalo [min, max].
func Clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Abs retorna o valor absoluto de um int.
func Abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Max retorna o maior de dois ints.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Min retorna o menor de dois ints.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
