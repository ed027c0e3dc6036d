package repair

// fixpoint applies fn to s until the output equals its input or limit
// applications have run, whichever comes first. The boolean reports whether a
// fixed point was reached within the limit.
func fixpoint(s string, limit int, fn func(string) string) (string, bool) {
	for i := 0; i < limit; i++ {
		next := fn(s)
		if next == s {
			return s, true
		}
		s = next
	}
	return s, false
}
