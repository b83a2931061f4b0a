package platform

import (
	"fmt"
	"strings"

	"HostFacts/pkg/collecting"
	"HostFacts/pkg/decoding"
	"HostFacts/pkg/failure"
)

// Snapshot sections in output order.
const (
	SectionSystem    = "system"
	SectionCPU       = "cpu"
	SectionMemory    = "memory"
	SectionNetwork   = "network"
	SectionProcesses = "processes"
	SectionMounts    = "mounts"
	SectionBlock     = "block"
)

// Sections lists every section name.
var Sections = []string{
	SectionSystem,
	SectionCPU,
	SectionMemory,
	SectionNetwork,
	SectionProcesses,
	SectionMounts,
	SectionBlock,
}

// System groups the identity facts of the host.
type System struct {
	Platform      string  `json:"platform" yaml:"platform"`
	Hostname      string  `json:"hostname" yaml:"hostname"`
	MachineID     string  `json:"machine_id,omitempty" yaml:"machine_id,omitempty"`
	Domainname    string  `json:"domainname,omitempty" yaml:"domainname,omitempty"`
	Kernel        string  `json:"kernel,omitempty" yaml:"kernel,omitempty"`
	Arch          string  `json:"arch,omitempty" yaml:"arch,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds,omitempty" yaml:"uptime_seconds,omitempty"`
}

// Network groups the default interface, its addresses and every
// interface's counters.
type Network struct {
	DefaultInterface string              `json:"default_interface,omitempty" yaml:"default_interface,omitempty"`
	IPv4             string              `json:"ipv4,omitempty" yaml:"ipv4,omitempty"`
	IPv6             string              `json:"ipv6,omitempty" yaml:"ipv6,omitempty"`
	MAC              string              `json:"mac,omitempty" yaml:"mac,omitempty"`
	Interfaces       decoding.Interfaces `json:"interfaces" yaml:"interfaces"`
}

// tolerate drops UnsupportedPlatform so a section can carry the facts the
// variant does answer.
func tolerate(err error) error {
	if failure.IsKind(err, failure.UnsupportedPlatform) {
		return nil
	}
	return err
}

// missing also drops SourceUnavailable, for facts hosts commonly lack.
func missing(err error) error {
	if failure.IsKind(err, failure.SourceUnavailable) {
		return nil
	}
	return tolerate(err)
}

// CollectSystem reads the System section. Only the hostname is required.
func CollectSystem(facts HostFacts) (System, error) {
	s := System{Platform: facts.Name()}
	var err error
	if s.Hostname, err = facts.Hostname(); err != nil {
		return s, err
	}
	if s.Domainname, err = facts.Domainname(); tolerate(err) != nil {
		return s, err
	}
	id, err := facts.MachineID()
	if missing(err) != nil {
		return s, err
	}
	if err == nil {
		s.MachineID = id.String()
	}
	if s.Kernel, err = facts.KernelVersion(); tolerate(err) != nil {
		return s, err
	}
	if s.Arch, err = facts.Arch(); tolerate(err) != nil {
		return s, err
	}
	uptime, err := facts.Uptime()
	if tolerate(err) != nil {
		return s, err
	}
	s.UptimeSeconds = uptime.Seconds()
	return s, nil
}

// CollectNetwork reads the Network section. The default interface and its
// addresses are optional.
func CollectNetwork(facts HostFacts) (Network, error) {
	var n Network
	ifaces, err := facts.Interfaces()
	if err != nil {
		return n, err
	}
	n.Interfaces = ifaces

	name, ok, err := facts.DefaultInterface()
	if tolerate(err) != nil {
		return n, err
	}
	if !ok {
		return n, nil
	}
	n.DefaultInterface = name

	if n.IPv4, _, err = facts.IPv4(name); tolerate(err) != nil {
		return n, err
	}
	if n.IPv6, _, err = facts.IPv6(name); tolerate(err) != nil {
		return n, err
	}
	if n.MAC, _, err = facts.MAC(name); tolerate(err) != nil {
		return n, err
	}
	return n, nil
}

// Collectors builds one collector per requested section, in the order of
// names. An empty list selects every section.
func Collectors(facts HostFacts, names []string) ([]collecting.Collector, error) {
	if len(names) == 0 {
		names = Sections
	}
	out := make([]collecting.Collector, 0, len(names))
	for _, name := range names {
		c, err := collector(facts, strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func collector(facts HostFacts, name string) (collecting.Collector, error) {
	var fn func() (any, error)
	switch name {
	case SectionSystem:
		fn = func() (any, error) { return CollectSystem(facts) }
	case SectionCPU:
		fn = func() (any, error) { return facts.Processor() }
	case SectionMemory:
		fn = func() (any, error) { return facts.MemoryInfo() }
	case SectionNetwork:
		fn = func() (any, error) { return CollectNetwork(facts) }
	case SectionProcesses:
		fn = func() (any, error) { return facts.Processes() }
	case SectionMounts:
		fn = func() (any, error) { return facts.Mounts() }
	case SectionBlock:
		fn = func() (any, error) { return facts.BlockDevices() }
	default:
		return nil, fmt.Errorf("unknown section %q (valid: %s)", name, strings.Join(Sections, ", "))
	}
	return collecting.NewCollector(name, fn), nil
}
