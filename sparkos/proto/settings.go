package proto

import "encoding/binary"

// SettingKey identifies one entry of a MsgSettings payload.
type SettingKey uint8

const (
	SettingBackgroundColor SettingKey = iota + 1
	SettingDigitColor
	SettingDigitBackgroundColor
	SettingDigitBorderColor
)

// Valid reports whether k is a known setting.
func (k SettingKey) Valid() bool {
	return k >= SettingBackgroundColor && k <= SettingDigitBorderColor
}

// Setting is one key/value pair pushed by the phone companion.
type Setting struct {
	Key   SettingKey
	Value uint32
}

const settingLen = 5

// MaxSettings is the number of entries that fit in one message.
const MaxSettings = 25

// SettingsPayload encodes a MsgSettings payload.
//
// Layout (little-endian), repeated:
//   - u8: key
//   - u32: value
//
// Entries past MaxSettings are dropped.
func SettingsPayload(settings []Setting) []byte {
	if len(settings) > MaxSettings {
		settings = settings[:MaxSettings]
	}
	buf := make([]byte, len(settings)*settingLen)
	for i, s := range settings {
		off := i * settingLen
		buf[off] = byte(s.Key)
		binary.LittleEndian.PutUint32(buf[off+1:off+5], s.Value)
	}
	return buf
}

// DecodeSettingsPayload decodes a SettingsPayload. A trailing partial entry
// makes the whole payload invalid.
func DecodeSettingsPayload(payload []byte) ([]Setting, bool) {
	if len(payload)%settingLen != 0 {
		return nil, false
	}
	out := make([]Setting, 0, len(payload)/settingLen)
	for off := 0; off < len(payload); off += settingLen {
		out = append(out, Setting{
			Key:   SettingKey(payload[off]),
			Value: binary.LittleEndian.Uint32(payload[off+1 : off+5]),
		})
	}
	return out, true
}
