package service

import "strings"

// ChunkConfig controls document chunking for knowledge embeddings.
type ChunkConfig struct {
	ChunkSize int // soft cap on chunk length in characters
	Overlap   int // approximate character overlap carried between chunks
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkSize: 500,
		Overlap:   100,
	}
}

// ChunkDocument splits content into ordered, overlapping segments suitable
// for independent embedding. Sentences are accumulated greedily; when the
// next sentence would push the buffer past ChunkSize, the buffer is emitted
// and the next one is seeded with the tail words of the emitted chunk so
// context carries across the boundary. The size cap is soft: a single
// sentence longer than ChunkSize is emitted whole, never truncated.
func ChunkDocument(content string, cfg ChunkConfig) []string {
	if cfg.ChunkSize <= 0 {
		cfg = DefaultChunkConfig()
	}

	sentences := splitSentences(content)
	if len(sentences) == 0 {
		return nil
	}

	// Overlap is specified in characters; approximate it as words assuming
	// an average word length of five characters.
	overlapWords := cfg.Overlap / 5

	chunks := make([]string, 0, 4)
	var buf strings.Builder

	for _, sentence := range sentences {
		if buf.Len() > 0 && buf.Len()+1+len(sentence) > cfg.ChunkSize {
			chunk := buf.String()
			chunks = append(chunks, chunk)

			buf.Reset()
			if tail := tailWords(chunk, overlapWords); tail != "" {
				buf.WriteString(tail)
				buf.WriteByte(' ')
			}
		} else if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(sentence)
	}

	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}

	return chunks
}

// splitSentences splits text on sentence terminators, keeping the terminator
// attached to its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	return sentences
}

// tailWords returns the last n whitespace-separated words of s.
func tailWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(s)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}
