// Package watchface is the digital face: digit formatting, the 3x5 bitmap
// font, rectangle-based glyph rendering and the controller that ties them to
// tick and redraw callbacks.
//
// The package draws through the Surface interface only, so the same face
// renders into the RGB565 framebuffer on device and into an image on the host.
package watchface
