//go:build tinygo

package main

import (
	"github.com/idreamsi/pebble-boxyface/app"
	"github.com/idreamsi/pebble-boxyface/hal"
	"github.com/idreamsi/pebble-boxyface/sparkos/watchface"
)

func main() {
	app.Run(hal.New(), app.Config{Align: watchface.AlignMiddle, HourLeadingZero: true})
}
