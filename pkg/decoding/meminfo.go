package decoding

// Memory is the decoded /proc/meminfo, all values in bytes.
type Memory struct {
	Total     uint64 `json:"total" yaml:"total"`
	Free      uint64 `json:"free" yaml:"free"`
	Available uint64 `json:"available" yaml:"available"`
	Buffers   uint64 `json:"buffers" yaml:"buffers"`
	Cached    uint64 `json:"cached" yaml:"cached"`
	Shared    uint64 `json:"shared" yaml:"shared"`
	SwapTotal uint64 `json:"swap_total" yaml:"swap_total"`
	SwapFree  uint64 `json:"swap_free" yaml:"swap_free"`
}

// Used is Total minus Available.
func (m Memory) Used() uint64 {
	if m.Available > m.Total {
		return 0
	}
	return m.Total - m.Available
}

// DecodeMeminfo decodes /proc/meminfo. MemTotal, MemFree, MemAvailable,
// SwapTotal and SwapFree are required; Buffers, Cached and Shmem default
// to zero.
func DecodeMeminfo(text string) (Memory, error) {
	const op = "meminfo"
	m := firstValues(DecodeKeyValue(text))

	var mem Memory
	required := []struct {
		key string
		dst *uint64
	}{
		{"MemTotal", &mem.Total},
		{"MemFree", &mem.Free},
		{"MemAvailable", &mem.Available},
		{"SwapTotal", &mem.SwapTotal},
		{"SwapFree", &mem.SwapFree},
	}
	for _, r := range required {
		v, err := quantityOf(op, m, r.key)
		if err != nil {
			return Memory{}, err
		}
		*r.dst = v
	}

	optional := []struct {
		key string
		dst *uint64
	}{
		{"Buffers", &mem.Buffers},
		{"Cached", &mem.Cached},
		{"Shmem", &mem.Shared},
	}
	for _, o := range optional {
		if _, ok := m[o.key]; !ok {
			continue
		}
		v, err := quantityOf(op, m, o.key)
		if err != nil {
			return Memory{}, err
		}
		*o.dst = v
	}
	return mem, nil
}
