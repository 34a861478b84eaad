package ptr

// String: 문자열 포인터를 만든다.
func String(v string) *string { return &v }
