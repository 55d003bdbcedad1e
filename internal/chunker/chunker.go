package chunker

// Split breaks text into consecutive chunks of at most size runes.
// The chunks cover the input exactly: concatenating them in order
// reproduces the original text. Empty input yields no chunks.
func Split(text string, size int) []string {
	if size <= 0 {
		size = 800
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
