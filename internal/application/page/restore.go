package page

// RestoreMode tells which branch of the startup restore ran.
type RestoreMode int

const (
	// RestoreNone means nothing was restored.
	RestoreNone RestoreMode = iota
	// RestoreHydrate means the table was filled from history.
	RestoreHydrate
	// RestoreReplay means a submission was replayed from the address.
	RestoreReplay
)

func (m RestoreMode) String() string {
	switch m {
	case RestoreHydrate:
		return "hydrate"
	case RestoreReplay:
		return "replay"
	default:
		return "none"
	}
}
