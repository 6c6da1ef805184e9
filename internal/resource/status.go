package resource

// Status is the lifecycle state of the resource slot.
type Status int32

const (
	StatusUnloaded Status = iota
	StatusLoading
	StatusLoaded
	StatusUnloading
)

func (s Status) String() string {
	switch s {
	case StatusUnloaded:
		return "unloaded"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusUnloading:
		return "unloading"
	default:
		return "unknown"
	}
}
