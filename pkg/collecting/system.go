package collecting

import (
	"time"

	"github.com/google/uuid"

	"HostFacts/pkg/decoding"
)

// Hostname reads the kernel's node name.
func (h *Host) Hostname() (string, error) {
	return h.FS.ReadTrimmed(h.FS.Proc("sys", "kernel", "hostname"))
}

// Domainname reads the NIS domain name; "(none)" means unset.
func (h *Host) Domainname() (string, error) {
	return h.FS.ReadTrimmed(h.FS.Proc("sys", "kernel", "domainname"))
}

// KernelVersion reads the running kernel release.
func (h *Host) KernelVersion() (string, error) {
	return h.FS.ReadTrimmed(h.FS.Proc("sys", "kernel", "osrelease"))
}

// Uptime decodes /proc/uptime.
func (h *Host) Uptime() (time.Duration, error) {
	text, err := h.FS.ReadFile(h.FS.Proc("uptime"))
	if err != nil {
		return 0, err
	}
	return decoding.DecodeUptime(text)
}

// MachineID reads /etc/machine-id, falling back to the DMI product uuid.
func (h *Host) MachineID() (uuid.UUID, error) {
	text, err := h.FS.ReadFile(h.FS.Etc("machine-id"))
	if err != nil {
		h.skip(h.FS.Etc("machine-id"), "", err)
		text, err = h.FS.ReadFile(h.FS.Sys("class", "dmi", "id", "product_uuid"))
		if err != nil {
			return uuid.Nil, err
		}
	}
	return decoding.DecodeMachineID(text)
}
