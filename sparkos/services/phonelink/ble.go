//go:build !tinygo

package phonelink

import (
	"fmt"

	"tinygo.org/x/bluetooth"
)

var (
	serviceUUID = [16]byte{0xb0, 0x7f, 0x00, 0x01, 0x3c, 0x2a, 0x4e, 0x51, 0x9a, 0x1d, 0x62, 0x0e, 0x5b, 0x0c, 0xf4, 0x11}
	settingUUID = [16]byte{0xb0, 0x7f, 0x00, 0x02, 0x3c, 0x2a, 0x4e, 0x51, 0x9a, 0x1d, 0x62, 0x0e, 0x5b, 0x0c, 0xf4, 0x11}
)

// BLE exposes one writable GATT characteristic that the companion writes
// settings payloads into.
type BLE struct {
	Adapter   *bluetooth.Adapter
	LocalName string

	settings bluetooth.Characteristic
}

// NewBLE uses the default adapter and advertises as name.
func NewBLE(name string) *BLE {
	return &BLE{Adapter: bluetooth.DefaultAdapter, LocalName: name}
}

func (b *BLE) Start(onWrite func(value []byte)) error {
	if err := b.Adapter.Enable(); err != nil {
		return fmt.Errorf("enable BLE stack: %w", err)
	}
	adv := b.Adapter.DefaultAdvertisement()
	if err := adv.Configure(bluetooth.AdvertisementOptions{
		LocalName:    b.LocalName,
		ServiceUUIDs: []bluetooth.UUID{bluetooth.NewUUID(serviceUUID)},
	}); err != nil {
		return fmt.Errorf("configure advertisement: %w", err)
	}

	err := b.Adapter.AddService(&bluetooth.Service{
		UUID: bluetooth.NewUUID(serviceUUID),
		Characteristics: []bluetooth.CharacteristicConfig{
			{
				Handle: &b.settings,
				UUID:   bluetooth.NewUUID(settingUUID),
				Flags:  bluetooth.CharacteristicWritePermission | bluetooth.CharacteristicWriteWithoutResponsePermission,
				WriteEvent: func(client bluetooth.Connection, offset int, value []byte) {
					if offset != 0 || len(value) == 0 {
						return
					}
					buf := make([]byte, len(value))
					copy(buf, value)
					onWrite(buf)
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("add service: %w", err)
	}
	if err := adv.Start(); err != nil {
		return fmt.Errorf("start advertisement: %w", err)
	}
	return nil
}
