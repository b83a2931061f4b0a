package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"HostFacts/pkg/decoding"
)

// NewIfaceCmd creates the iface subcommand.
func NewIfaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "iface [name]",
		Short: "Print interface counters as JSON",
		Long: `Print every interface with its counters, or one interface by name.

Example:
  hostfacts iface
  hostfacts iface eth0`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIface,
	}
}

func runIface(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		ifaces, err := facts.Interfaces()
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), ifaces)
	}

	iface, err := facts.Interface(args[0])
	if err != nil {
		return err
	}
	if iface == nil {
		return fmt.Errorf("interface not found: %s", args[0])
	}
	return writeJSON(cmd.OutOrStdout(), iface)
}

// NewPsCmd creates the ps subcommand.
func NewPsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ps [pid]",
		Short: "Print process records as JSON",
		Long: `Print every process record in pid order, or one process by pid.

Example:
  hostfacts ps
  hostfacts ps 1`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPs,
	}
}

func runPs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		procs, err := facts.Processes()
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), procs)
	}

	pid, err := strconv.Atoi(args[0])
	if err != nil || pid <= 0 {
		return fmt.Errorf("invalid pid: %s", args[0])
	}
	proc, err := facts.Process(pid)
	if err != nil {
		return err
	}
	if proc == nil {
		return fmt.Errorf("process not found: %d", pid)
	}
	return writeJSON(cmd.OutOrStdout(), proc)
}

// NewBlockCmd creates the block subcommand.
func NewBlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "block [name]",
		Short: "Print block devices as JSON",
		Long: `Print every block device grouped by kind, or one device by name.
The name prefix selects the kind: sd (disk), dm- (device mapper),
sr (optical drive), md (software RAID).

Example:
  hostfacts block
  hostfacts block sda`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBlock,
	}
}

func runBlock(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		devices, err := facts.BlockDevices()
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), devices)
	}

	name := args[0]
	kind, ok := decoding.KindOf(name)
	if !ok {
		// Let the disk reader report the invalid device kind.
		kind = decoding.KindBlock
	}

	var (
		device any
		err    error
	)
	switch kind {
	case decoding.KindDeviceMapper:
		device, err = facts.StatDeviceMapper(name)
	case decoding.KindScsiCdrom:
		device, err = facts.StatScsiCdrom(name)
	case decoding.KindMultipleDevice:
		device, err = facts.StatMultipleDeviceStorage(name)
	default:
		device, err = facts.StatBlockDevice(name)
	}
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), device)
}

// NewMountsCmd creates the mounts subcommand.
func NewMountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mounts [target]",
		Short: "Print the mount table as JSON",
		Long: `Print the mount table in kernel order, or the visible mount on one
target directory.

Example:
  hostfacts mounts
  hostfacts mounts /home`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMounts,
	}
}

func runMounts(cmd *cobra.Command, args []string) error {
	mounts, err := facts.Mounts()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return writeJSON(cmd.OutOrStdout(), mounts)
	}

	m, ok := mounts.ByTarget(args[0])
	if !ok {
		return fmt.Errorf("no mount on target: %s", args[0])
	}
	return writeJSON(cmd.OutOrStdout(), m)
}
