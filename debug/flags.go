package debug

import "strings"

// Flags is an immutable set of enabled debug flags. The zero value has
// every flag disabled.
type Flags struct {
	bits uint8
}

func (fs Flags) IsEnabled(f Flag) bool {
	if !f.valid() {
		return false
	}

	return fs.bits&(1<<f) != 0
}

// Lookup reports the value of the flag with the given name. known is false
// when the name does not belong to any flag, in which case enabled is
// always false.
func (fs Flags) Lookup(name string) (enabled, known bool) {
	f, err := ParseFlag(name)
	if err != nil {
		return false, false
	}

	return fs.IsEnabled(f), true
}

// With returns a copy of fs with f set to enabled. fs itself is unchanged.
func (fs Flags) With(f Flag, enabled bool) Flags {
	if !f.valid() {
		return fs
	}

	if enabled {
		fs.bits |= 1 << f
	} else {
		fs.bits &^= 1 << f
	}

	return fs
}

func (fs Flags) PrintCode() bool      { return fs.IsEnabled(PrintCode) }
func (fs Flags) TraceExecution() bool { return fs.IsEnabled(TraceExecution) }
func (fs Flags) StressGC() bool       { return fs.IsEnabled(StressGC) }
func (fs Flags) LogGC() bool          { return fs.IsEnabled(LogGC) }

// Enabled lists the enabled flags in declaration order.
func (fs Flags) Enabled() []Flag {
	var enabled []Flag

	for _, f := range All() {
		if fs.IsEnabled(f) {
			enabled = append(enabled, f)
		}
	}

	return enabled
}

// Map returns every flag name with its value.
func (fs Flags) Map() map[string]bool {
	values := make(map[string]bool, flagCount)
	for _, f := range All() {
		values[f.String()] = fs.IsEnabled(f)
	}

	return values
}

func (fs Flags) String() string {
	enabled := fs.Enabled()
	if len(enabled) == 0 {
		return "none"
	}

	names := make([]string, len(enabled))
	for i, f := range enabled {
		names[i] = f.String()
	}

	return strings.Join(names, ",")
}
