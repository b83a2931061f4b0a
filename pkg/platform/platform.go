// Package platform exposes host facts behind one interface with a variant
// per operating system. Callers depend on HostFacts only.
package platform

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"

	"HostFacts/pkg/decoding"
	"HostFacts/pkg/failure"
	"HostFacts/pkg/probing"
)

// HostFacts is the set of facts a platform variant can answer. Facts a
// variant cannot produce fail with failure.UnsupportedPlatform.
type HostFacts interface {
	// Name returns the platform identifier ("linux", "darwin", "windows").
	Name() string

	Hostname() (string, error)
	Domainname() (string, error)
	Uptime() (time.Duration, error)
	Arch() (string, error)
	KernelVersion() (string, error)
	// MachineID returns the stable host identifier.
	MachineID() (uuid.UUID, error)

	// CPU returns the processor model string.
	CPU() (string, error)
	// CPUClock returns the clock in MHz.
	CPUClock() (float64, error)
	CPUCores() (int, error)
	LogicalCores() (int, error)
	Processor() (decoding.Processor, error)
	Cores() (decoding.Cores, error)

	// Memory returns physical memory in bytes.
	Memory() (uint64, error)
	// Swap returns configured swap in bytes.
	Swap() (uint64, error)
	MemoryInfo() (decoding.Memory, error)

	// DefaultInterface names the interface carrying the default route.
	// ok is false when there is none.
	DefaultInterface() (name string, ok bool, err error)
	IPv4(iface string) (addr string, ok bool, err error)
	IPv6(iface string) (addr string, ok bool, err error)
	MAC(iface string) (mac string, ok bool, err error)
	InterfaceNames() ([]string, error)
	Interfaces() (decoding.Interfaces, error)
	// Interface returns nil when the interface does not exist.
	Interface(name string) (*decoding.Interface, error)

	Pids() ([]int, error)
	Processes() (decoding.Processes, error)
	// Process returns nil when the pid does not exist.
	Process(pid int) (*decoding.ProcessStat, error)

	Mounts() (decoding.MountPoints, error)
	BlockDevices() (decoding.BlockDevices, error)
	StatBlockDevice(name string) (decoding.StorageDevice, error)
	StatDeviceMapper(name string) (decoding.DeviceMapper, error)
	StatScsiCdrom(name string) (decoding.ScsiCdrom, error)
	StatMultipleDeviceStorage(name string) (decoding.MultipleDeviceStorage, error)
	BlockSize(name string) (uint64, error)
}

// Options tunes the variant returned by NewWith. Zero values select the
// live host and slog.Default().
type Options struct {
	// FS roots the Linux pseudo-filesystems. Other variants ignore it.
	FS probing.FS

	Logger *slog.Logger

	// Concurrent reads process records with a worker pool.
	Concurrent bool
}

func (o Options) withDefaults() Options {
	if o.FS.ProcRoot == "" && o.FS.SysRoot == "" && o.FS.EtcRoot == "" {
		o.FS = probing.DefaultFS()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// New returns the variant for the running OS.
func New() HostFacts {
	return NewWith(Options{})
}

// NewWith returns the variant for the running OS configured by opts.
func NewWith(opts Options) HostFacts {
	return newPlatform(opts.withDefaults())
}

// unsupported fails every fact with UnsupportedPlatform. Variants embed it
// and override what they implement.
type unsupported struct {
	goos string
}

func (u unsupported) fail(op string) error { return failure.Unsupported(op, u.goos) }

func (u unsupported) Name() string { return u.goos }

func (u unsupported) Hostname() (string, error) { return "", u.fail("hostname") }
func (u unsupported) Domainname() (string, error) { return "", u.fail("domainname") }
func (u unsupported) Uptime() (time.Duration, error) { return 0, u.fail("uptime") }
func (u unsupported) Arch() (string, error) { return "", u.fail("arch") }
func (u unsupported) KernelVersion() (string, error) { return "", u.fail("kernel version") }
func (u unsupported) MachineID() (uuid.UUID, error) { return uuid.Nil, u.fail("machine id") }
func (u unsupported) CPU() (string, error) { return "", u.fail("cpu") }
func (u unsupported) CPUClock() (float64, error) { return 0, u.fail("cpu clock") }
func (u unsupported) CPUCores() (int, error) { return 0, u.fail("cpu cores") }
func (u unsupported) LogicalCores() (int, error) { return 0, u.fail("logical cores") }
func (u unsupported) Memory() (uint64, error) { return 0, u.fail("memory") }
func (u unsupported) Swap() (uint64, error) { return 0, u.fail("swap") }
func (u unsupported) InterfaceNames() ([]string, error) { return nil, u.fail("interfaces") }
func (u unsupported) Pids() ([]int, error) { return nil, u.fail("pids") }

func (u unsupported) Processor() (decoding.Processor, error) {
	return decoding.Processor{}, u.fail("processor")
}

func (u unsupported) Cores() (decoding.Cores, error) { return nil, u.fail("cores") }

func (u unsupported) MemoryInfo() (decoding.Memory, error) {
	return decoding.Memory{}, u.fail("meminfo")
}

func (u unsupported) DefaultInterface() (string, bool, error) {
	return "", false, u.fail("default interface")
}

func (u unsupported) IPv4(string) (string, bool, error) { return "", false, u.fail("ipv4") }
func (u unsupported) IPv6(string) (string, bool, error) { return "", false, u.fail("ipv6") }
func (u unsupported) MAC(string) (string, bool, error) { return "", false, u.fail("mac") }

func (u unsupported) Interfaces() (decoding.Interfaces, error) {
	return nil, u.fail("interfaces")
}

func (u unsupported) Interface(string) (*decoding.Interface, error) {
	return nil, u.fail("interface")
}

func (u unsupported) Processes() (decoding.Processes, error) {
	return nil, u.fail("processes")
}

func (u unsupported) Process(int) (*decoding.ProcessStat, error) {
	return nil, u.fail("process")
}

func (u unsupported) Mounts() (decoding.MountPoints, error) { return nil, u.fail("mounts") }

func (u unsupported) BlockDevices() (decoding.BlockDevices, error) {
	return decoding.BlockDevices{}, u.fail("block devices")
}

func (u unsupported) StatBlockDevice(string) (decoding.StorageDevice, error) {
	return decoding.StorageDevice{}, u.fail("block device")
}

func (u unsupported) StatDeviceMapper(string) (decoding.DeviceMapper, error) {
	return decoding.DeviceMapper{}, u.fail("device mapper")
}

func (u unsupported) StatScsiCdrom(string) (decoding.ScsiCdrom, error) {
	return decoding.ScsiCdrom{}, u.fail("scsi cdrom")
}

func (u unsupported) StatMultipleDeviceStorage(string) (decoding.MultipleDeviceStorage, error) {
	return decoding.MultipleDeviceStorage{}, u.fail("multiple device storage")
}

func (u unsupported) BlockSize(string) (uint64, error) { return 0, u.fail("block size") }

// Unsupported returns the variant used on operating systems without an
// implementation.
func Unsupported() HostFacts {
	return unsupported{goos: runtime.GOOS}
}
