package content

// Plaintext splits content on ASCII whitespace.
func Plaintext(content []byte, emit EmitFunc) {
	i := 0
	n := len(content)
	for i < n {
		for i < n && isASCIISpace(content[i]) {
			i++
		}

		start := i
		for i < n && !isASCIISpace(content[i]) {
			i++
		}

		if i > start {
			emit(string(content[start:i]))
		}
	}
}
