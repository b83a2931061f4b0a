package decoding

import (
	"fmt"
	"strconv"
	"strings"

	"HostFacts/pkg/failure"
)

// SectorSize is the unit of /sys/block/<dev>/size regardless of the
// device's logical block size.
const SectorSize = 512

// DeviceKind is the block-device category implied by a name prefix.
type DeviceKind int

const (
	KindBlock DeviceKind = iota
	KindDeviceMapper
	KindScsiCdrom
	KindMultipleDevice
)

// Prefix returns the name prefix required for the kind.
func (k DeviceKind) Prefix() string {
	switch k {
	case KindBlock:
		return "sd"
	case KindDeviceMapper:
		return "dm"
	case KindScsiCdrom:
		return "sr"
	case KindMultipleDevice:
		return "md"
	default:
		return ""
	}
}

func (k DeviceKind) String() string {
	switch k {
	case KindBlock:
		return "block device"
	case KindDeviceMapper:
		return "device mapper"
	case KindScsiCdrom:
		return "scsi cdrom"
	case KindMultipleDevice:
		return "multiple device storage"
	default:
		return fmt.Sprintf("DeviceKind(%d)", int(k))
	}
}

// KindOf classifies a device name by prefix.
func KindOf(name string) (DeviceKind, bool) {
	for _, k := range []DeviceKind{KindBlock, KindDeviceMapper, KindScsiCdrom, KindMultipleDevice} {
		if strings.HasPrefix(name, k.Prefix()) {
			return k, true
		}
	}
	return 0, false
}

// CheckDeviceName fails with InvalidDeviceKind when name lacks the prefix
// of kind.
func CheckDeviceName(name string, kind DeviceKind) error {
	if !strings.HasPrefix(name, kind.Prefix()) {
		return failure.InvalidDevice(name, kind.Prefix())
	}
	return nil
}

// BlockStat holds the I/O counters of /sys/block/<dev>/stat. The discard
// and flush groups are zero on kernels that do not report them.
type BlockStat struct {
	ReadIOs        uint64 `json:"read_ios" yaml:"read_ios"`
	ReadMerges     uint64 `json:"read_merges" yaml:"read_merges"`
	ReadSectors    uint64 `json:"read_sectors" yaml:"read_sectors"`
	ReadTicks      uint64 `json:"read_ticks" yaml:"read_ticks"`
	WriteIOs       uint64 `json:"write_ios" yaml:"write_ios"`
	WriteMerges    uint64 `json:"write_merges" yaml:"write_merges"`
	WriteSectors   uint64 `json:"write_sectors" yaml:"write_sectors"`
	WriteTicks     uint64 `json:"write_ticks" yaml:"write_ticks"`
	InFlight       uint64 `json:"in_flight" yaml:"in_flight"`
	IOTicks        uint64 `json:"io_ticks" yaml:"io_ticks"`
	TimeInQueue    uint64 `json:"time_in_queue" yaml:"time_in_queue"`
	DiscardIOs     uint64 `json:"discard_ios" yaml:"discard_ios"`
	DiscardMerges  uint64 `json:"discard_merges" yaml:"discard_merges"`
	DiscardSectors uint64 `json:"discard_sectors" yaml:"discard_sectors"`
	DiscardTicks   uint64 `json:"discard_ticks" yaml:"discard_ticks"`
	FlushIOs       uint64 `json:"flush_ios" yaml:"flush_ios"`
	FlushTicks     uint64 `json:"flush_ticks" yaml:"flush_ticks"`
}

// blockStatFields are the counts a stat line may legally carry, by kernel
// generation.
var blockStatFields = map[int]bool{11: true, 15: true, 17: true}

// DecodeBlockStat decodes /sys/block/<dev>/stat.
func DecodeBlockStat(text string) (BlockStat, error) {
	line := strings.TrimSpace(text)
	f := strings.Fields(line)
	if !blockStatFields[len(f)] {
		return BlockStat{}, failure.FieldCount("block/stat", line, 11, len(f))
	}
	v := make([]uint64, 17)
	for i, s := range f {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return BlockStat{}, failure.Malformed("block/stat", line, err)
		}
		v[i] = n
	}
	return BlockStat{
		ReadIOs: v[0], ReadMerges: v[1], ReadSectors: v[2], ReadTicks: v[3],
		WriteIOs: v[4], WriteMerges: v[5], WriteSectors: v[6], WriteTicks: v[7],
		InFlight: v[8], IOTicks: v[9], TimeInQueue: v[10],
		DiscardIOs: v[11], DiscardMerges: v[12], DiscardSectors: v[13], DiscardTicks: v[14],
		FlushIOs: v[15], FlushTicks: v[16],
	}, nil
}

// BlockInfo is what every block device and partition exposes in sysfs.
type BlockInfo struct {
	Name      string     `json:"name" yaml:"name"`
	Major     uint32     `json:"major" yaml:"major"`
	Minor     uint32     `json:"minor" yaml:"minor"`
	Size      uint64     `json:"size" yaml:"size"`
	BlockSize uint64     `json:"block_size" yaml:"block_size"`
	Stat      *BlockStat `json:"stat,omitempty" yaml:"stat,omitempty"`
}

// Partition is a child of a StorageDevice.
type Partition struct {
	BlockInfo `yaml:",inline"`
}

// StorageDevice is an sd* disk.
type StorageDevice struct {
	BlockInfo  `yaml:",inline"`
	Model      string      `json:"model,omitempty" yaml:"model,omitempty"`
	Vendor     string      `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	State      string      `json:"state,omitempty" yaml:"state,omitempty"`
	Partitions []Partition `json:"partitions" yaml:"partitions"`
}

// DeviceMapper is a dm-* mapped device.
type DeviceMapper struct {
	BlockInfo `yaml:",inline"`
	DMName    string   `json:"dm_name,omitempty" yaml:"dm_name,omitempty"`
	UUID      string   `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Slaves    []string `json:"slaves" yaml:"slaves"`
}

// ScsiCdrom is an sr* optical drive.
type ScsiCdrom struct {
	BlockInfo `yaml:",inline"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	Vendor    string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	State     string `json:"state,omitempty" yaml:"state,omitempty"`
}

// MultipleDeviceStorage is an md* software RAID array.
type MultipleDeviceStorage struct {
	BlockInfo `yaml:",inline"`
	Level     string   `json:"level,omitempty" yaml:"level,omitempty"`
	Slaves    []string `json:"slaves" yaml:"slaves"`
}

// BlockDevices groups the devices found under /sys/block by kind.
type BlockDevices struct {
	StorageDevices         []StorageDevice         `json:"storage_devices" yaml:"storage_devices"`
	DeviceMappers          []DeviceMapper          `json:"device_mappers" yaml:"device_mappers"`
	ScsiCdroms             []ScsiCdrom             `json:"scsi_cdroms" yaml:"scsi_cdroms"`
	MultipleDeviceStorages []MultipleDeviceStorage `json:"multiple_device_storages" yaml:"multiple_device_storages"`
}

// Len counts all grouped devices.
func (b BlockDevices) Len() int {
	return len(b.StorageDevices) + len(b.DeviceMappers) + len(b.ScsiCdroms) + len(b.MultipleDeviceStorages)
}

// DecodeUint parses a single-integer sysfs value.
func DecodeUint(text string) (uint64, error) {
	v := strings.TrimSpace(text)
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, failure.Malformed("uint", v, err)
	}
	return n, nil
}

// DecodeSectors converts a sysfs size (512-byte sectors) to bytes.
func DecodeSectors(text string) (uint64, error) {
	n, err := DecodeUint(text)
	if err != nil {
		return 0, err
	}
	return n * SectorSize, nil
}

// DecodeDevNumber decodes a "major:minor" dev file.
func DecodeDevNumber(text string) (major, minor uint32, err error) {
	v := strings.TrimSpace(text)
	majText, minText, ok := strings.Cut(v, ":")
	if !ok {
		return 0, 0, failure.Malformedf("dev", v, "missing ':'")
	}
	a, err := strconv.ParseUint(majText, 10, 32)
	if err != nil {
		return 0, 0, failure.Malformed("dev", v, err)
	}
	b, err := strconv.ParseUint(minText, 10, 32)
	if err != nil {
		return 0, 0, failure.Malformed("dev", v, err)
	}
	return uint32(a), uint32(b), nil
}
