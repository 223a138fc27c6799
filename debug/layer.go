package debug

// Layer is one step of the configuration chain. Define switches flags on
// and Undef switches them off; when a layer names the same flag in both,
// Undef wins. Flags a layer does not mention keep the value left by the
// layers before it.
type Layer struct {
	Name   string
	Define []Flag
	Undef  []Flag
}

var (
	// BookLayer is the presentation default: execution tracing on.
	BookLayer = Layer{
		Name:   "book",
		Define: []Flag{TraceExecution},
	}

	// LocalLayer switches every flag off for local development builds,
	// whatever the layers before it defined.
	LocalLayer = Layer{
		Name:  "local",
		Undef: All(),
	}
)

func (l Layer) apply(fs Flags) Flags {
	for _, f := range l.Define {
		fs = fs.With(f, true)
	}

	for _, f := range l.Undef {
		fs = fs.With(f, false)
	}

	return fs
}

// IsEmpty reports whether the layer leaves every flag untouched.
func (l Layer) IsEmpty() bool {
	return len(l.Define) == 0 && len(l.Undef) == 0
}

// Resolve applies layers in order, starting from every flag disabled.
func Resolve(layers ...Layer) Flags {
	var fs Flags

	for _, l := range layers {
		fs = l.apply(fs)
	}

	return fs
}

// BuildLayers returns the chain fixed when the binary was built. The
// slice is a fresh copy on every call.
func BuildLayers() []Layer {
	layers := make([]Layer, len(buildLayers))
	copy(layers, buildLayers)

	return layers
}

// Default resolves the build chain alone.
func Default() Flags {
	return Resolve(buildLayers...)
}
