//go:build book
// +build book

package debug

var buildLayers = []Layer{BookLayer}
