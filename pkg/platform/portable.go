package platform

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	"HostFacts/pkg/decoding"
	"HostFacts/pkg/failure"
	"HostFacts/pkg/probing"
)

// queryTimeout bounds every gopsutil and command query.
const queryTimeout = 5 * time.Second

func queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), queryTimeout)
}

// address picks the first address of one family bound to iface.
func address(iface string, v6 bool) (string, bool, error) {
	addrs, err := probing.InterfaceAddrs(iface)
	if err != nil {
		return "", false, err
	}
	addr, ok := decoding.FirstAddress(addrs, v6)
	return addr, ok, nil
}

// portable answers the interface, process and mount facts through
// gopsutil on hosts without procfs.
type portable struct{}

func (portable) interfaceList() (net.InterfaceStatList, error) {
	ctx, cancel := queryContext()
	defer cancel()
	list, err := net.InterfacesWithContext(ctx)
	if err != nil {
		return nil, failure.Unavailable("interfaces", "gopsutil/net", err)
	}
	return list, nil
}

func (p portable) InterfaceNames() ([]string, error) {
	list, err := p.interfaceList()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list))
	for _, iface := range list {
		names = append(names, iface.Name)
	}
	return names, nil
}

func (p portable) MAC(name string) (string, bool, error) {
	list, err := p.interfaceList()
	if err != nil {
		return "", false, err
	}
	for _, iface := range list {
		if iface.Name != name {
			continue
		}
		if iface.HardwareAddr == "" {
			return "", false, nil
		}
		mac, err := decoding.DecodeMAC(iface.HardwareAddr)
		if err != nil {
			return "", false, err
		}
		return mac, true, nil
	}
	return "", false, nil
}

func (portable) Interfaces() (decoding.Interfaces, error) {
	ctx, cancel := queryContext()
	defer cancel()
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, failure.Unavailable("interfaces", "gopsutil/net", err)
	}
	out := make(decoding.Interfaces, 0, len(counters))
	for _, c := range counters {
		out = append(out, decoding.Interface{Name: c.Name, Stat: interfaceStatFromCounters(c)})
	}
	return out, nil
}

func (p portable) Interface(name string) (*decoding.Interface, error) {
	ifaces, err := p.Interfaces()
	if err != nil {
		return nil, err
	}
	iface, ok := ifaces.Find(name)
	if !ok {
		return nil, nil
	}
	return &iface, nil
}

// interfaceStatFromCounters maps gopsutil counters onto the net/dev
// layout. Counters gopsutil does not report stay zero.
func interfaceStatFromCounters(c net.IOCountersStat) decoding.InterfaceStat {
	return decoding.InterfaceStat{
		RxBytes:   c.BytesRecv,
		RxPackets: c.PacketsRecv,
		RxErrs:    c.Errin,
		RxDrop:    c.Dropin,
		RxFifo:    c.Fifoin,
		TxBytes:   c.BytesSent,
		TxPackets: c.PacketsSent,
		TxErrs:    c.Errout,
		TxDrop:    c.Dropout,
		TxFifo:    c.Fifoout,
	}
}

func (portable) Pids() ([]int, error) {
	ctx, cancel := queryContext()
	defer cancel()
	raw, err := process.PidsWithContext(ctx)
	if err != nil {
		return nil, failure.Unavailable("pids", "gopsutil/process", err)
	}
	pids := make([]int, len(raw))
	for i, p := range raw {
		pids[i] = int(p)
	}
	sort.Ints(pids)
	return pids, nil
}

func (portable) Mounts() (decoding.MountPoints, error) {
	ctx, cancel := queryContext()
	defer cancel()
	parts, err := disk.PartitionsWithContext(ctx, true)
	if err != nil {
		return nil, failure.Unavailable("mounts", "gopsutil/disk", err)
	}
	out := make(decoding.MountPoints, 0, len(parts))
	for _, p := range parts {
		out = append(out, mountFromPartition(p))
	}
	return out, nil
}

func mountFromPartition(p disk.PartitionStat) decoding.MountPoint {
	opts := make([]string, 0, len(p.Opts))
	for _, o := range p.Opts {
		if o = strings.TrimSpace(o); o != "" {
			opts = append(opts, o)
		}
	}
	return decoding.MountPoint{
		Source:  p.Device,
		Target:  p.Mountpoint,
		FSType:  p.Fstype,
		Options: opts,
	}
}

// virtualMemory and swapMemory read gopsutil's memory counters.
func virtualMemory() (*mem.VirtualMemoryStat, error) {
	ctx, cancel := queryContext()
	defer cancel()
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, failure.Unavailable("memory", "gopsutil/mem", err)
	}
	return vm, nil
}

func swapMemory() (*mem.SwapMemoryStat, error) {
	ctx, cancel := queryContext()
	defer cancel()
	sw, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return nil, failure.Unavailable("swap", "gopsutil/mem", err)
	}
	return sw, nil
}

// memoryFromStats maps gopsutil memory counters onto the meminfo layout.
func memoryFromStats(vm *mem.VirtualMemoryStat, sw *mem.SwapMemoryStat) decoding.Memory {
	m := decoding.Memory{
		Total:     vm.Total,
		Free:      vm.Free,
		Available: vm.Available,
		Buffers:   vm.Buffers,
		Cached:    vm.Cached,
		Shared:    vm.Shared,
	}
	if sw != nil {
		m.SwapTotal = sw.Total
		m.SwapFree = sw.Free
	}
	return m
}

// skipOptional logs an optional sub-fact that could not be read.
func skipOptional(logger *slog.Logger, fact string, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("optional fact unavailable", "fact", fact, "error", err)
}

// run executes a command under the query timeout.
func run(r probing.Runner, name string, args ...string) (string, error) {
	ctx, cancel := queryContext()
	defer cancel()
	return r.Run(ctx, name, args...)
}
