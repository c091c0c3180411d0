package usage

func (r *Record) IsPremium() bool {
	return r.Role == RolePremium
}

// reports whether a non-premium record has reached its ceiling
func (r *Record) Exhausted() bool {
	return !r.IsPremium() && r.UsageCount >= r.MaxUsage
}

// generations left before the ceiling, -1 for premium
func (r *Record) Remaining() int {
	if r.IsPremium() {
		return -1
	}

	if r.UsageCount >= r.MaxUsage {
		return 0
	}

	return r.MaxUsage - r.UsageCount
}
