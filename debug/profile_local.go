//go:build !book
// +build !book

package debug

// Local builds keep every diagnostic off unless a later layer asks for it.
var buildLayers = []Layer{BookLayer, LocalLayer}
