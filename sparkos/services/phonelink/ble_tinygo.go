//go:build tinygo

package phonelink

import "errors"

// BLE is unavailable on boards without a radio stack.
type BLE struct{}

func NewBLE(name string) *BLE {
	_ = name
	return &BLE{}
}

func (b *BLE) Start(onWrite func(value []byte)) error {
	_ = onWrite
	return errors.New("bluetooth not available on this target")
}
