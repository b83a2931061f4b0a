//go:build linux

package platform

import (
	"time"

	"github.com/google/uuid"

	"HostFacts/pkg/collecting"
	"HostFacts/pkg/decoding"
	"HostFacts/pkg/failure"
	"HostFacts/pkg/probing"
)

func newPlatform(opts Options) HostFacts {
	return NewLinux(opts)
}

// Linux answers facts from procfs and sysfs through a collecting.Host.
type Linux struct {
	host *collecting.Host
}

// NewLinux builds the Linux variant on opts.FS.
func NewLinux(opts Options) *Linux {
	h := collecting.NewHost(opts.FS, opts.Logger)
	h.Concurrent = opts.Concurrent
	return &Linux{host: h}
}

// Host exposes the underlying aggregator for Linux-only facts.
func (l *Linux) Host() *collecting.Host { return l.host }

func (l *Linux) Name() string { return "linux" }

func (l *Linux) Hostname() (string, error) { return l.host.Hostname() }
func (l *Linux) Domainname() (string, error) { return l.host.Domainname() }
func (l *Linux) Uptime() (time.Duration, error) { return l.host.Uptime() }
func (l *Linux) KernelVersion() (string, error) { return l.host.KernelVersion() }
func (l *Linux) MachineID() (uuid.UUID, error) { return l.host.MachineID() }

func (l *Linux) Arch() (string, error) {
	u, err := probing.Uname()
	if err != nil {
		return "", err
	}
	return u.Machine, nil
}

func (l *Linux) CPU() (string, error) {
	p, err := l.host.Processor()
	if err != nil {
		return "", err
	}
	return p.ModelName, nil
}

func (l *Linux) CPUClock() (float64, error) { return l.host.CPUClock() }
func (l *Linux) CPUCores() (int, error) { return l.host.PhysicalCores() }
func (l *Linux) LogicalCores() (int, error) { return l.host.LogicalCores() }
func (l *Linux) Processor() (decoding.Processor, error) { return l.host.Processor() }
func (l *Linux) Cores() (decoding.Cores, error) { return l.host.Cores() }

func (l *Linux) Memory() (uint64, error) { return l.host.MemoryTotal() }
func (l *Linux) Swap() (uint64, error) { return l.host.SwapTotal() }
func (l *Linux) MemoryInfo() (decoding.Memory, error) { return l.host.Memory() }

func (l *Linux) DefaultInterface() (string, bool, error) { return l.host.DefaultInterface() }
func (l *Linux) MAC(iface string) (string, bool, error) { return l.host.MAC(iface) }
func (l *Linux) InterfaceNames() ([]string, error) { return l.host.InterfaceNames() }

func (l *Linux) IPv4(iface string) (string, bool, error) { return address(iface, false) }
// IPv6 falls back to /proc/net/if_inet6 when the interface reports no
// IPv6 socket address.
func (l *Linux) IPv6(iface string) (string, bool, error) {
	addr, ok, err := address(iface, true)
	if err != nil || ok {
		return addr, ok, err
	}
	addrs, err := l.host.IPv6Addrs(iface)
	if err != nil {
		if failure.IsKind(err, failure.SourceUnavailable) {
			return "", false, nil
		}
		return "", false, err
	}
	if len(addrs) == 0 {
		return "", false, nil
	}
	return addrs[0].Address.String(), true, nil
}

func (l *Linux) Interfaces() (decoding.Interfaces, error) { return l.host.Interfaces() }

func (l *Linux) Interface(name string) (*decoding.Interface, error) {
	return l.host.Interface(name)
}

func (l *Linux) Pids() ([]int, error) { return l.host.Pids() }
func (l *Linux) Processes() (decoding.Processes, error) { return l.host.Processes() }

func (l *Linux) Process(pid int) (*decoding.ProcessStat, error) { return l.host.Process(pid) }

func (l *Linux) Mounts() (decoding.MountPoints, error) { return l.host.Mounts() }
func (l *Linux) BlockDevices() (decoding.BlockDevices, error) { return l.host.BlockDevices() }
func (l *Linux) BlockSize(name string) (uint64, error) { return l.host.BlockSize(name) }

func (l *Linux) StatBlockDevice(name string) (decoding.StorageDevice, error) {
	return l.host.StatBlockDevice(name)
}

func (l *Linux) StatDeviceMapper(name string) (decoding.DeviceMapper, error) {
	return l.host.StatDeviceMapper(name)
}

func (l *Linux) StatScsiCdrom(name string) (decoding.ScsiCdrom, error) {
	return l.host.StatScsiCdrom(name)
}

func (l *Linux) StatMultipleDeviceStorage(name string) (decoding.MultipleDeviceStorage, error) {
	return l.host.StatMultipleDeviceStorage(name)
}
