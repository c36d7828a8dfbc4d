package mode

// Mode is the shape of an inbound search: a single search box or advanced rows.
type Mode string

// Search mode constants.
const (
	// Basic is a single lookfor/type search.
	Basic Mode = "basic"
	// Advanced is a set of lookforN/typeN/boolN rows combined by a join operator.
	Advanced Mode = "advanced"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Basic || m == Advanced
}
