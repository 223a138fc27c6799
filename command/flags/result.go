package flags

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"arlindohall.com/glox/command/helper"
)

type LayerResult struct {
	Name   string   `json:"name"`
	Define []string `json:"define"`
	Undef  []string `json:"undef"`
}

type FlagsResult struct {
	Flags  map[string]bool `json:"flags"`
	Layers []LayerResult   `json:"layers"`
}

func (r *FlagsResult) GetOutput() string {
	var buffer bytes.Buffer

	names := make([]string, 0, len(r.Flags))
	for name := range r.Flags {
		names = append(names, name)
	}

	sort.Strings(names)

	rows := make([]string, len(names))
	for i, name := range names {
		rows[i] = fmt.Sprintf("%s|%t", name, r.Flags[name])
	}

	buffer.WriteString("\n[DEBUG FLAGS]\n")
	buffer.WriteString(helper.FormatKV(rows))
	buffer.WriteString("\n")

	buffer.WriteString("\n[LAYERS]\n")

	rows = make([]string, len(r.Layers))
	for i, layer := range r.Layers {
		rows[i] = fmt.Sprintf("%s|%s", layer.Name, layer.describe())
	}

	buffer.WriteString(helper.FormatKV(rows))
	buffer.WriteString("\n")

	return buffer.String()
}

func (l LayerResult) describe() string {
	var parts []string

	if len(l.Define) > 0 {
		parts = append(parts, "define "+strings.Join(l.Define, ", "))
	}

	if len(l.Undef) > 0 {
		parts = append(parts, "undef "+strings.Join(l.Undef, ", "))
	}

	return strings.Join(parts, "; ")
}
