package utils

// IntPtr returns a pointer to a copy of v.
func IntPtr(v int) *int {
	return &v
}
