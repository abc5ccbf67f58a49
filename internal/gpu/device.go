package gpu

// Family is a Metal GPU family. Values match MTLGPUFamily raw values.
type Family int

const (
	FamilyApple7 Family = 1007
	FamilyApple8 Family = 1008
	FamilyApple9 Family = 1009
)

// FallbackTierLabel is reported for devices that match none of the known families.
const FallbackTierLabel = "Metal 2+"

// Device is a handle to a graphics device.
type Device interface {
	Name() string
	HasUnifiedMemory() bool
	SupportsFamily(f Family) bool
}

// Locator returns the system's default graphics device, or false when the
// platform has none (headless or unsupported hardware).
type Locator func() (Device, bool)

// tiers is checked in order; newest family first.
var tiers = []struct {
	family Family
	label  string
}{
	{FamilyApple9, "Metal 3"},
	{FamilyApple8, "Metal 3"},
	{FamilyApple7, "Metal 2.4"},
}

// FeatureTierLabel maps the newest supported family to a coarse Metal version label.
func FeatureTierLabel(d Device) string {
	for _, t := range tiers {
		if d.SupportsFamily(t.family) {
			return t.label
		}
	}
	return FallbackTierLabel
}
