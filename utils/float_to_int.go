package utils

// Float32ToInt16 converts a normalized sample to 16-bit PCM. Input outside
// [-1, 1] is clamped, and both extremes scale by 32767 so full-scale input
// cannot overflow.
func Float32ToInt16(x float32) int16 {
	switch {
	case x >= 1:
		return 32767
	case x <= -1:
		return -32767
	}
	return int16(x * 32767)
}
