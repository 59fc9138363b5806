package jpktype

// Hierarchy identifies the internal layout of a JPK archive.
type Hierarchy uint8

// Known archive layouts.
const (
	// HierarchyUnknown is the zero value and never returned by a successful resolve.
	HierarchyUnknown Hierarchy = iota

	// HierarchySingle holds exactly one curve under "segments/".
	HierarchySingle

	// HierarchyIndexed holds many curves under "index/<enum>/".
	HierarchyIndexed
)

// String returns the string representation of the hierarchy.
func (h Hierarchy) String() string {
	switch h {
	case HierarchySingle:
		return "single"
	case HierarchyIndexed:
		return "indexed"
	default:
		return "unknown"
	}
}
