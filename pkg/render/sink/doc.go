// Package sink provides [render.Canvas] implementations.
//
//   - [Recorder] keeps every draw call as an [Op] for inspection.
//   - [SVG] writes a standalone SVG document into a buffer.
//   - [PNG] rasterizes into an RGBA image using fogleman/gg.
//
// All canvases measure text with the shared Go Regular font (pkg/fonts), so
// label backgrounds are sized identically across outputs.
package sink
