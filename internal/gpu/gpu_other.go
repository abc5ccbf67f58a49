//go:build !darwin || !cgo

package gpu

// SystemDefaultDevice reports no device. Metal is only available on macOS
// builds with cgo enabled.
func SystemDefaultDevice() (Device, bool) {
	return nil, false
}

type unavailableRegistry struct{}

func (unavailableRegistry) MatchingServices(string) (Iterator, error) {
	return nil, ErrRegistryUnavailable
}

func systemRegistry() Registry {
	return unavailableRegistry{}
}
