package sharelink

// classifyWindow bounds how many leading bytes IsText inspects.
const classifyWindow = 100

// IsText heuristically classifies decrypted bytes as presentable text.
//
// It scans up to the first 100 bytes: a NUL or any control character other
// than tab, newline, and carriage return marks the content as binary.
// Bytes >= 0x80 are allowed so UTF-8 text passes. Empty content counts as
// text.
func IsText(data []byte) bool {
	n := len(data)
	if n > classifyWindow {
		n = classifyWindow
	}
	for _, b := range data[:n] {
		if b == 0x00 || b == 0x7f {
			return false
		}
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			return false
		}
	}
	return true
}
