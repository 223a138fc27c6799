package version

import (
	"bytes"
	"fmt"

	"arlindohall.com/glox/command/helper"
)

type VersionResult struct {
	Version string `json:"version"`
	Profile string `json:"profile"`
}

func (r *VersionResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[VERSION INFO]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Release version|%s", r.Version),
		fmt.Sprintf("Build profile|%s", r.Profile),
	}))

	return buffer.String()
}
