package decoding

import (
	"strconv"
	"strings"

	"HostFacts/pkg/failure"
)

// Processor describes the host CPU as seen in the first /proc/cpuinfo
// block, plus topology counts derived from all blocks.
type Processor struct {
	ModelName     string   `json:"model_name" yaml:"model_name"`
	Vendor        string   `json:"vendor" yaml:"vendor"`
	Family        string   `json:"family,omitempty" yaml:"family,omitempty"`
	Model         string   `json:"model,omitempty" yaml:"model,omitempty"`
	Stepping      string   `json:"stepping,omitempty" yaml:"stepping,omitempty"`
	Microcode     string   `json:"microcode,omitempty" yaml:"microcode,omitempty"`
	CacheSize     uint64   `json:"cache_size" yaml:"cache_size"`
	MHz           float64  `json:"mhz" yaml:"mhz"`
	Flags         []string `json:"flags,omitempty" yaml:"flags,omitempty"`
	LogicalCores  int      `json:"logical_cores" yaml:"logical_cores"`
	PhysicalCores int      `json:"physical_cores" yaml:"physical_cores"`
}

// Core is one logical CPU.
type Core struct {
	ID         int     `json:"id" yaml:"id"`
	PhysicalID int     `json:"physical_id" yaml:"physical_id"`
	CoreID     int     `json:"core_id" yaml:"core_id"`
	MHz        float64 `json:"mhz" yaml:"mhz"`
}

// Cores keeps /proc/cpuinfo order.
type Cores []Core

// MaxMHz is the highest clock among the cores.
func (cs Cores) MaxMHz() float64 {
	var top float64
	for _, c := range cs {
		if c.MHz > top {
			top = c.MHz
		}
	}
	return top
}

// cpuinfoBlocks splits a listing on blank lines. Within a block the first
// occurrence of a key wins.
func cpuinfoBlocks(text string) []map[string]string {
	var blocks []map[string]string
	var cur []KeyValue
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, firstValues(cur))
			cur = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if k, v, ok := SplitKeyValue(line); ok && k != "" {
			cur = append(cur, KeyValue{Key: k, Value: v})
		}
	}
	flush()
	return blocks
}

// DecodeCPUInfo decodes /proc/cpuinfo. Every block must carry a
// "processor" key, except trailing host-level blocks on ARM which hold
// keys such as "Hardware".
func DecodeCPUInfo(text string) (Processor, Cores, error) {
	const op = "cpuinfo"
	blocks := cpuinfoBlocks(text)

	var cores Cores
	host := map[string]string{}
	for _, b := range blocks {
		id, ok := b["processor"]
		if !ok {
			if len(cores) == 0 {
				return Processor{}, nil, failure.MissingKey(op, "processor")
			}
			for k, v := range b {
				if _, seen := host[k]; !seen {
					host[k] = v
				}
			}
			continue
		}
		n, err := strconv.Atoi(id)
		if err != nil {
			return Processor{}, nil, failure.Malformed(op, "processor: "+id, err)
		}
		core := Core{ID: n}
		if core.PhysicalID, err = optionalInt(b, "physical id", -1); err != nil {
			return Processor{}, nil, failure.Malformed(op, "physical id", err)
		}
		if core.CoreID, err = optionalInt(b, "core id", -1); err != nil {
			return Processor{}, nil, failure.Malformed(op, "core id", err)
		}
		if v, ok := b["cpu MHz"]; ok {
			if core.MHz, err = strconv.ParseFloat(v, 64); err != nil {
				return Processor{}, nil, failure.Malformed(op, "cpu MHz: "+v, err)
			}
		}
		cores = append(cores, core)
	}
	if len(cores) == 0 {
		return Processor{}, nil, failure.MissingKey(op, "processor")
	}

	first := blocks[0]
	p := Processor{
		ModelName:    firstNonEmpty(first["model name"], first["Processor"], first["CPU implementer"], host["Hardware"]),
		Vendor:       firstNonEmpty(first["vendor_id"], first["CPU implementer"]),
		Family:       firstNonEmpty(first["cpu family"], first["CPU architecture"]),
		Model:        firstNonEmpty(first["model"], first["CPU part"]),
		Stepping:     firstNonEmpty(first["stepping"], first["CPU revision"]),
		Microcode:    first["microcode"],
		MHz:          cores[0].MHz,
		LogicalCores: len(cores),
	}
	if v, ok := first["cache size"]; ok {
		size, err := ParseQuantity(v)
		if err != nil {
			return Processor{}, nil, failure.Malformed(op, "cache size: "+v, err)
		}
		p.CacheSize = size
	}
	if v := firstNonEmpty(first["flags"], first["Features"]); v != "" {
		p.Flags = strings.Fields(v)
	}

	physical, err := physicalCores(first, cores)
	if err != nil {
		return Processor{}, nil, failure.Malformed(op, "cpu cores", err)
	}
	p.PhysicalCores = physical
	return p, cores, nil
}

// physicalCores counts unique (physical id, core id) pairs, then falls
// back to "cpu cores" and finally to the logical count.
func physicalCores(first map[string]string, cores Cores) (int, error) {
	type pair struct{ pkg, core int }
	seen := map[pair]struct{}{}
	for _, c := range cores {
		if c.CoreID >= 0 {
			seen[pair{c.PhysicalID, c.CoreID}] = struct{}{}
		}
	}
	if len(seen) > 0 {
		return len(seen), nil
	}
	if v, ok := first["cpu cores"]; ok {
		return strconv.Atoi(v)
	}
	return len(cores), nil
}

func optionalInt(m map[string]string, key string, def int) (int, error) {
	v, ok := m[key]
	if !ok {
		return def, nil
	}
	return strconv.Atoi(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
