//go:build !linux && !darwin && !windows

package platform

func newPlatform(Options) HostFacts {
	return Unsupported()
}
