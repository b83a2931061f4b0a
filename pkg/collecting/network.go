package collecting

import (
	"strings"

	"HostFacts/pkg/decoding"
)

// InterfaceNames lists /sys/class/net in the order the OS reports.
func (h *Host) InterfaceNames() ([]string, error) {
	return h.FS.ListDir(h.FS.Sys("class", "net"))
}

// netDevRows decodes the per-interface rows of /proc/net/dev, keyed by
// name. Malformed rows are skipped.
func (h *Host) netDevRows() (map[string]decoding.InterfaceStat, error) {
	path := h.FS.Proc("net", "dev")
	lines, err := h.FS.ReadLines(path)
	if err != nil {
		return nil, err
	}
	rows := make(map[string]decoding.InterfaceStat, len(lines))
	for i, line := range lines {
		if i < 2 || strings.TrimSpace(line) == "" {
			continue
		}
		name, stat, err := decoding.DecodeNetDevLine(line)
		if err != nil {
			h.skip(path, line, err)
			continue
		}
		rows[name] = stat
	}
	return rows, nil
}

// Interfaces pairs every listed interface with its counters. Interfaces
// without a counters row are skipped.
func (h *Host) Interfaces() (decoding.Interfaces, error) {
	names, err := h.InterfaceNames()
	if err != nil {
		return nil, err
	}
	rows, err := h.netDevRows()
	if err != nil {
		return nil, err
	}

	out := make(decoding.Interfaces, 0, len(names))
	for _, name := range names {
		stat, ok := rows[name]
		if !ok {
			h.skip("net/dev", name, nil)
			continue
		}
		out = append(out, decoding.Interface{Name: name, Stat: stat})
	}
	return out, nil
}

// Interface looks up one interface. A name that is not listed, or has no
// counters row, yields nil without error.
func (h *Host) Interface(name string) (*decoding.Interface, error) {
	if !h.FS.Exists(h.FS.Sys("class", "net", name)) {
		return nil, nil
	}
	lines, err := h.FS.ReadLines(h.FS.Proc("net", "dev"))
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		if i < 2 {
			continue
		}
		rowName, _, _ := strings.Cut(line, ":")
		if strings.TrimSpace(rowName) != name {
			continue
		}
		_, stat, err := decoding.DecodeNetDevLine(line)
		if err != nil {
			return nil, err
		}
		return &decoding.Interface{Name: name, Stat: stat}, nil
	}
	return nil, nil
}

// MAC returns the hardware address of an interface.
func (h *Host) MAC(name string) (string, bool, error) {
	path := h.FS.Sys("class", "net", name, "address")
	if !h.FS.Exists(path) {
		return "", false, nil
	}
	raw, err := h.FS.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	mac, err := decoding.DecodeMAC(raw)
	if err != nil {
		return "", false, err
	}
	return mac, true, nil
}

// DefaultInterface names the interface of the lowest-metric default route.
// Without a usable route table it falls back to the first ARP entry.
func (h *Host) DefaultInterface() (string, bool, error) {
	routePath := h.FS.Proc("net", "route")
	text, err := h.FS.ReadFile(routePath)
	if err == nil {
		routes, derr := decoding.DecodeRouteTable(text)
		if derr != nil {
			return "", false, derr
		}
		if r, ok := decoding.DefaultRoute(routes); ok {
			return r.Iface, true, nil
		}
	} else {
		h.skip(routePath, "", err)
	}

	text, err = h.FS.ReadFile(h.FS.Proc("net", "arp"))
	if err != nil {
		return "", false, err
	}
	entries, err := decoding.DecodeARPTable(text)
	if err != nil {
		return "", false, err
	}
	if len(entries) == 0 {
		return "", false, nil
	}
	return entries[0].Device, true, nil
}

// IPv6Addrs lists the IPv6 addresses configured on an interface.
func (h *Host) IPv6Addrs(name string) ([]decoding.Inet6Addr, error) {
	text, err := h.FS.ReadFile(h.FS.Proc("net", "if_inet6"))
	if err != nil {
		return nil, err
	}
	all, err := decoding.DecodeIfInet6(text)
	if err != nil {
		return nil, err
	}
	var out []decoding.Inet6Addr
	for _, a := range all {
		if a.Iface == name {
			out = append(out, a)
		}
	}
	return out, nil
}
