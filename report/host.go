package report

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Host describes the machine a run was measured on.
type Host struct {
	OS         string   `json:"os"`
	Arch       string   `json:"arch"`
	NumCPU     int      `json:"num_cpu"`
	GOMAXPROCS int      `json:"gomaxprocs"`
	GoVersion  string   `json:"go_version"`
	Features   []string `json:"cpu_features,omitempty"`
}

// DescribeHost reads the current host.
func DescribeHost() Host {
	return Host{
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		GoVersion:  runtime.Version(),
		Features:   features(),
	}
}

// features lists the vector extensions relevant to the kernels.
func features() []string {
	var out []string

	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}

	add(cpu.X86.HasSSE41, "sse4.1")
	add(cpu.X86.HasAVX, "avx")
	add(cpu.X86.HasAVX2, "avx2")
	add(cpu.X86.HasFMA, "fma")
	add(cpu.X86.HasAVX512F, "avx512f")
	add(cpu.ARM64.HasASIMD, "asimd")
	add(cpu.ARM64.HasSVE, "sve")

	return out
}
