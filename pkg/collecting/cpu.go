package collecting

import (
	"HostFacts/pkg/decoding"
)

func (h *Host) cpuinfo() (decoding.Processor, decoding.Cores, error) {
	text, err := h.FS.ReadFile(h.FS.Proc("cpuinfo"))
	if err != nil {
		return decoding.Processor{}, nil, err
	}
	return decoding.DecodeCPUInfo(text)
}

// Processor describes the host CPU.
func (h *Host) Processor() (decoding.Processor, error) {
	p, _, err := h.cpuinfo()
	return p, err
}

// Cores lists the logical CPUs.
func (h *Host) Cores() (decoding.Cores, error) {
	_, cores, err := h.cpuinfo()
	return cores, err
}

// CPUClock returns the highest per-core clock in MHz. When /proc/cpuinfo
// carries no clock (most ARM kernels) the cpufreq maximum of cpu0 is used.
func (h *Host) CPUClock() (float64, error) {
	_, cores, err := h.cpuinfo()
	if err != nil {
		return 0, err
	}
	if mhz := cores.MaxMHz(); mhz > 0 {
		return mhz, nil
	}
	raw, err := h.FS.ReadFile(h.FS.Sys("devices", "system", "cpu", "cpu0", "cpufreq", "cpuinfo_max_freq"))
	if err != nil {
		return 0, err
	}
	khz, err := decoding.DecodeUint(raw)
	if err != nil {
		return 0, err
	}
	return float64(khz) / 1000, nil
}

// PhysicalCores counts distinct cores.
func (h *Host) PhysicalCores() (int, error) {
	p, _, err := h.cpuinfo()
	return p.PhysicalCores, err
}

// LogicalCores counts processor entries.
func (h *Host) LogicalCores() (int, error) {
	p, _, err := h.cpuinfo()
	return p.LogicalCores, err
}
