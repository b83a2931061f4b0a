package probing

import (
	"net"
	"strconv"

	"HostFacts/pkg/failure"
)

// InterfaceAddrs returns the addresses bound to the named interface in
// socket-address form: "ip:port" for IPv4 and "[ip]:port" for IPv6, the
// way the native address list renders them. A missing interface yields
// (nil, nil).
func InterfaceAddrs(name string) ([]string, error) {
	iface, err := findInterface(name)
	if err != nil {
		return nil, failure.Unavailable("ifaddrs", name, err)
	}
	if iface == nil {
		return nil, nil
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return nil, failure.Unavailable("ifaddrs", name, err)
	}

	out := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		var ip net.IP
		var zone string
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip, zone = v.IP, v.Zone
		default:
			continue
		}
		host := ip.String()
		if zone != "" {
			host += "%" + zone
		}
		out = append(out, net.JoinHostPort(host, strconv.Itoa(0)))
	}
	return out, nil
}

// findInterface looks name up in the interface list; nil means absent.
func findInterface(name string) (*net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for i := range ifaces {
		if ifaces[i].Name == name {
			return &ifaces[i], nil
		}
	}
	return nil, nil
}
