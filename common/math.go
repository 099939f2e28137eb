package common

// Clamp limits v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// MoveToward moves current toward target by at most maxDelta and never
// overshoots. maxDelta is treated as a magnitude.
func MoveToward(current, target, maxDelta float64) float64 {
	if maxDelta < 0 {
		maxDelta = -maxDelta
	}
	diff := target - current
	if diff > maxDelta {
		return current + maxDelta
	}
	if diff < -maxDelta {
		return current - maxDelta
	}
	return target
}

// ApplyFriction reduces speed toward zero by friction amount.
func ApplyFriction(speed, friction float64) float64 {
	if speed > friction {
		return speed - friction
	}
	if speed < -friction {
		return speed + friction
	}
	return 0
}
