package session

// Refiner is the session-facing subset of text refinement behavior.
type Refiner interface {
	Refine(string) string
	AddCustomJargon(term string, canonical string)
}

// passthroughRefiner preserves session flow when no refiner is wired.
type passthroughRefiner struct{}

func (passthroughRefiner) Refine(text string) string            { return text }
func (passthroughRefiner) AddCustomJargon(term, canonical string) {}
