// Package testutil holds helpers shared by fuzz tests.
package testutil

// ByteStream reads bytes sequentially from a byte slice.
//
// Used by fuzz tests to deterministically derive table operations from fuzz
// input. When the stream is exhausted, all reads return zero values, so the
// same input always produces the same sequence of operations.
type ByteStream struct {
	bytes []byte
	pos   int
}

// NewByteStream creates a stream over the given bytes.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{bytes: b}
}

// HasMore reports whether unread bytes remain.
func (s *ByteStream) HasMore() bool {
	return s.pos < len(s.bytes)
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}

	v := s.bytes[s.pos]
	s.pos++

	return v
}

// NextInt returns an int in [0, maxVal) derived from the next byte.
func (s *ByteStream) NextInt(maxVal int) int {
	if maxVal <= 0 {
		return 0
	}

	return int(s.NextByte()) % maxVal
}

// NextIndex returns an int in [-1, n], so callers also exercise the
// out-of-range edges of an n-element sequence.
func (s *ByteStream) NextIndex(n int) int {
	return s.NextInt(n+2) - 1
}

// NextBool returns a boolean derived from the next byte.
func (s *ByteStream) NextBool() bool {
	return s.NextByte()&1 == 1
}

// NextKey returns a string of length 1-maxLen over a small alphabet, so
// generated keys collide often.
func (s *ByteStream) NextKey(maxLen int) string {
	const alphabet = "abcd"

	if maxLen <= 0 {
		return ""
	}

	length := 1 + s.NextInt(maxLen)

	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[s.NextInt(len(alphabet))]
	}

	return string(out)
}
