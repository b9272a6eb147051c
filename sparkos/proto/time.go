package proto

import "encoding/binary"

// SleepPayload encodes a MsgSleep request payload.
//
// Layout (little-endian):
//   - u32: requestID
//   - u32: dt ticks
func SleepPayload(requestID uint32, dt uint32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], requestID)
	binary.LittleEndian.PutUint32(buf[4:8], dt)
	return buf
}

// DecodeSleepPayload decodes a SleepPayload.
func DecodeSleepPayload(payload []byte) (requestID uint32, dt uint32, ok bool) {
	if len(payload) < 8 {
		return 0, 0, false
	}
	requestID = binary.LittleEndian.Uint32(payload[0:4])
	dt = binary.LittleEndian.Uint32(payload[4:8])
	return requestID, dt, true
}

// WakePayload encodes a MsgWake response payload.
//
// Layout (little-endian):
//   - u32: requestID
func WakePayload(requestID uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf[0:4], requestID)
	return buf
}

// DecodeWakePayload decodes a WakePayload.
func DecodeWakePayload(payload []byte) (requestID uint32, ok bool) {
	if len(payload) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(payload[0:4]), true
}

// TimeUnits is a bitmask of calendar units, as used by tick subscriptions.
type TimeUnits uint8

const (
	UnitSecond TimeUnits = 1 << iota
	UnitMinute
	UnitHour
	UnitDay
	UnitMonth
	UnitYear
)

// UnitsAll covers every unit a subscriber can ask for.
const UnitsAll = UnitSecond | UnitMinute | UnitHour | UnitDay | UnitMonth | UnitYear

// Has reports whether any unit in o is set in u.
func (u TimeUnits) Has(o TimeUnits) bool { return u&o != 0 }

// TickFlags describes the clock style carried in a MsgTick.
type TickFlags uint8

const (
	// Tick24h is set when the user's clock style is 24-hour.
	Tick24h TickFlags = 1 << iota
)

// TickSubscribePayload encodes a MsgTickSubscribe request payload.
// The reply capability travels as the message capability.
//
// Layout:
//   - u8: units
func TickSubscribePayload(units TimeUnits) []byte {
	return []byte{byte(units)}
}

// DecodeTickSubscribePayload decodes a TickSubscribePayload.
func DecodeTickSubscribePayload(payload []byte) (units TimeUnits, ok bool) {
	if len(payload) < 1 {
		return 0, false
	}
	return TimeUnits(payload[0]), true
}

const tickPayloadLen = 14

// TickPayload encodes a MsgTick payload.
//
// Layout (little-endian):
//   - i64: unix seconds
//   - i32: zone offset seconds east of UTC
//   - u8: changed units (0 for a MsgNow reply)
//   - u8: flags
func TickPayload(unix int64, zoneOffset int32, changed TimeUnits, flags TickFlags) []byte {
	buf := make([]byte, tickPayloadLen)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(unix))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(zoneOffset))
	buf[12] = byte(changed)
	buf[13] = byte(flags)
	return buf
}

// DecodeTickPayload decodes a TickPayload.
func DecodeTickPayload(payload []byte) (unix int64, zoneOffset int32, changed TimeUnits, flags TickFlags, ok bool) {
	if len(payload) < tickPayloadLen {
		return 0, 0, 0, 0, false
	}
	unix = int64(binary.LittleEndian.Uint64(payload[0:8]))
	zoneOffset = int32(binary.LittleEndian.Uint32(payload[8:12]))
	return unix, zoneOffset, TimeUnits(payload[12]), TickFlags(payload[13]), true
}
