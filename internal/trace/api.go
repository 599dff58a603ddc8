package trace

// The functions below operate on the calling goroutine's registry.

// Activate turns recording on for tag.
func Activate(tag string) { Current().Activate(tag) }

// Deactivate turns recording off for tag.
func Deactivate(tag string) { Current().Deactivate(tag) }

// Reset clears tag's events and depth counters.
func Reset(tag string) { Current().Reset(tag) }

// SetMaxDepth sets tag's depth ceiling; n <= 0 removes it.
func SetMaxDepth(tag string, n int) { Current().SetMaxDepth(tag, n) }

// SetPrint toggles real-time echo of tag's events.
func SetPrint(tag string, on bool) { Current().SetPrint(tag, on) }

// GetTrace renders tag's events, reporting false when there are none.
func GetTrace(tag string) (string, bool) { return Current().GetTrace(tag) }

// PrintTrace writes tag's rendered trace to the registry output.
func PrintTrace(tag string) { Current().PrintTrace(tag) }

// Events returns a copy of tag's events.
func Events(tag string) []Event { return Current().Events(tag) }
