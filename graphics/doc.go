// Package graphics is the rendering core of poro: texture resources, image
// preprocessing, the letterboxing viewport and immediate-mode sprite drawing
// on top of a fixed-function Device.
//
// All functions in this package must be called from the thread that owns the
// rendering context.
package graphics
