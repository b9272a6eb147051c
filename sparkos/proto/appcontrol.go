package proto

// AppControlPayload encodes a foreground/background command for an app task.
// A backgrounded app keeps its state but stops presenting frames.
//
// Payload format:
//
//	b[0] == 0 => background
//	b[0] != 0 => foreground
func AppControlPayload(active bool) []byte {
	if active {
		return []byte{1}
	}
	return []byte{0}
}

func DecodeAppControlPayload(b []byte) (active bool, ok bool) {
	if len(b) != 1 {
		return false, false
	}
	return b[0] != 0, true
}
