package collecting

import (
	"path/filepath"
	"strings"

	"HostFacts/pkg/decoding"
)

// readOptional reads a single-value attribute that not every driver
// exposes. Missing attributes read as "".
func (h *Host) readOptional(path string) string {
	v, err := h.FS.ReadTrimmed(path)
	if err != nil {
		return ""
	}
	return v
}

// blockInfo reads the attributes shared by disks and partitions under dir.
// size and dev are required; the queue block size and I/O counters are
// read when present.
func (h *Host) blockInfo(name, dir string) (decoding.BlockInfo, error) {
	info := decoding.BlockInfo{Name: name}

	raw, err := h.FS.ReadFile(filepath.Join(dir, "size"))
	if err != nil {
		return info, err
	}
	if info.Size, err = decoding.DecodeSectors(raw); err != nil {
		return info, err
	}

	raw, err = h.FS.ReadFile(filepath.Join(dir, "dev"))
	if err != nil {
		return info, err
	}
	if info.Major, info.Minor, err = decoding.DecodeDevNumber(raw); err != nil {
		return info, err
	}

	if v := h.readOptional(filepath.Join(dir, "queue/physical_block_size")); v != "" {
		if info.BlockSize, err = decoding.DecodeUint(v); err != nil {
			return info, err
		}
	}
	if v := h.readOptional(filepath.Join(dir, "stat")); v != "" {
		st, err := decoding.DecodeBlockStat(v)
		if err != nil {
			return info, err
		}
		info.Stat = &st
	}
	return info, nil
}

func (h *Host) blockDir(name string) string { return h.FS.Sys("block", name) }

// slaves lists the devices an array or mapping is built on.
func (h *Host) slaves(name string) ([]string, error) {
	dir := h.FS.Sys("block", name, "slaves")
	if !h.FS.IsDir(dir) {
		return []string{}, nil
	}
	return h.FS.ListDir(dir)
}

// StatBlockDevice reads an sd* disk and its partitions.
func (h *Host) StatBlockDevice(name string) (decoding.StorageDevice, error) {
	if err := decoding.CheckDeviceName(name, decoding.KindBlock); err != nil {
		return decoding.StorageDevice{}, err
	}
	dir := h.blockDir(name)
	info, err := h.blockInfo(name, dir)
	if err != nil {
		return decoding.StorageDevice{}, err
	}
	dev := decoding.StorageDevice{
		BlockInfo:  info,
		Model:      h.readOptional(filepath.Join(dir, "device/model")),
		Vendor:     h.readOptional(filepath.Join(dir, "device/vendor")),
		State:      h.readOptional(filepath.Join(dir, "device/state")),
		Partitions: []decoding.Partition{},
	}

	entries, err := h.FS.ListDir(dir)
	if err != nil {
		return decoding.StorageDevice{}, err
	}
	for _, entry := range entries {
		if !strings.HasPrefix(entry, name) || entry == name {
			continue
		}
		part, err := h.blockInfo(entry, filepath.Join(dir, entry))
		if err != nil {
			h.skip(dir, entry, err)
			continue
		}
		dev.Partitions = append(dev.Partitions, decoding.Partition{BlockInfo: part})
	}
	return dev, nil
}

// StatDeviceMapper reads a dm-* device.
func (h *Host) StatDeviceMapper(name string) (decoding.DeviceMapper, error) {
	if err := decoding.CheckDeviceName(name, decoding.KindDeviceMapper); err != nil {
		return decoding.DeviceMapper{}, err
	}
	dir := h.blockDir(name)
	info, err := h.blockInfo(name, dir)
	if err != nil {
		return decoding.DeviceMapper{}, err
	}
	slaves, err := h.slaves(name)
	if err != nil {
		return decoding.DeviceMapper{}, err
	}
	return decoding.DeviceMapper{
		BlockInfo: info,
		DMName:    h.readOptional(filepath.Join(dir, "dm/name")),
		UUID:      h.readOptional(filepath.Join(dir, "dm/uuid")),
		Slaves:    slaves,
	}, nil
}

// StatScsiCdrom reads an sr* drive.
func (h *Host) StatScsiCdrom(name string) (decoding.ScsiCdrom, error) {
	if err := decoding.CheckDeviceName(name, decoding.KindScsiCdrom); err != nil {
		return decoding.ScsiCdrom{}, err
	}
	dir := h.blockDir(name)
	info, err := h.blockInfo(name, dir)
	if err != nil {
		return decoding.ScsiCdrom{}, err
	}
	return decoding.ScsiCdrom{
		BlockInfo: info,
		Model:     h.readOptional(filepath.Join(dir, "device/model")),
		Vendor:    h.readOptional(filepath.Join(dir, "device/vendor")),
		State:     h.readOptional(filepath.Join(dir, "device/state")),
	}, nil
}

// StatMultipleDeviceStorage reads an md* array.
func (h *Host) StatMultipleDeviceStorage(name string) (decoding.MultipleDeviceStorage, error) {
	if err := decoding.CheckDeviceName(name, decoding.KindMultipleDevice); err != nil {
		return decoding.MultipleDeviceStorage{}, err
	}
	dir := h.blockDir(name)
	info, err := h.blockInfo(name, dir)
	if err != nil {
		return decoding.MultipleDeviceStorage{}, err
	}
	slaves, err := h.slaves(name)
	if err != nil {
		return decoding.MultipleDeviceStorage{}, err
	}
	return decoding.MultipleDeviceStorage{
		BlockInfo: info,
		Level:     h.readOptional(filepath.Join(dir, "md/level")),
		Slaves:    slaves,
	}, nil
}

// BlockSize returns the physical block size of any block device.
func (h *Host) BlockSize(name string) (uint64, error) {
	raw, err := h.FS.ReadFile(h.FS.Sys("block", name, "queue", "physical_block_size"))
	if err != nil {
		return 0, err
	}
	return decoding.DecodeUint(raw)
}

// BlockDevices groups /sys/block by kind. Names with no known prefix are
// ignored and unreadable devices are skipped.
func (h *Host) BlockDevices() (decoding.BlockDevices, error) {
	ns := h.FS.Sys("block")
	names, err := h.FS.ListDir(ns)
	if err != nil {
		return decoding.BlockDevices{}, err
	}

	out := decoding.BlockDevices{
		StorageDevices:         []decoding.StorageDevice{},
		DeviceMappers:          []decoding.DeviceMapper{},
		ScsiCdroms:             []decoding.ScsiCdrom{},
		MultipleDeviceStorages: []decoding.MultipleDeviceStorage{},
	}
	for _, name := range names {
		kind, ok := decoding.KindOf(name)
		if !ok {
			continue
		}
		switch kind {
		case decoding.KindBlock:
			d, err := h.StatBlockDevice(name)
			if err != nil {
				h.skip(ns, name, err)
				continue
			}
			out.StorageDevices = append(out.StorageDevices, d)
		case decoding.KindDeviceMapper:
			d, err := h.StatDeviceMapper(name)
			if err != nil {
				h.skip(ns, name, err)
				continue
			}
			out.DeviceMappers = append(out.DeviceMappers, d)
		case decoding.KindScsiCdrom:
			d, err := h.StatScsiCdrom(name)
			if err != nil {
				h.skip(ns, name, err)
				continue
			}
			out.ScsiCdroms = append(out.ScsiCdroms, d)
		case decoding.KindMultipleDevice:
			d, err := h.StatMultipleDeviceStorage(name)
			if err != nil {
				h.skip(ns, name, err)
				continue
			}
			out.MultipleDeviceStorages = append(out.MultipleDeviceStorages, d)
		}
	}
	return out, nil
}

// Mounts decodes /proc/mounts.
func (h *Host) Mounts() (decoding.MountPoints, error) {
	text, err := h.FS.ReadFile(h.FS.Proc("mounts"))
	if err != nil {
		return nil, err
	}
	return decoding.DecodeMounts(text)
}
