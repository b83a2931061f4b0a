package collecting

import (
	"HostFacts/pkg/decoding"
)

// Memory decodes /proc/meminfo.
func (h *Host) Memory() (decoding.Memory, error) {
	text, err := h.FS.ReadFile(h.FS.Proc("meminfo"))
	if err != nil {
		return decoding.Memory{}, err
	}
	return decoding.DecodeMeminfo(text)
}

// MemoryTotal returns physical memory in bytes.
func (h *Host) MemoryTotal() (uint64, error) {
	m, err := h.Memory()
	return m.Total, err
}

// SwapTotal returns configured swap in bytes.
func (h *Host) SwapTotal() (uint64, error) {
	m, err := h.Memory()
	return m.SwapTotal, err
}
