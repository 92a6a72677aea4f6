// Package viz draws plot frames into the terminal.
//
//   - [Canvas]: braille raster with per-cell colour
//   - [Plot]: paints a view frame (axes, ticks, marks) onto a canvas
//   - [Theme] and [Styles]: chrome colours, four built-in themes
//
// Frames are laid out in braille dots: one terminal cell is 2 dots wide
// and 4 dots tall, so a view sized to the canvas dots maps marks
// straight onto it.
package viz
