package depot

import "github.com/rs/zerolog"

// Config holds global configuration for storages. Storages copy it when they
// are created, so changes only affect storages built afterwards.
var Config config = config{
	logger:                zerolog.Nop(),
	initialEntityCapacity: defaultLocationCapacity,
}

type config struct {
	archetypeEvents       ArchetypeEvents
	logger                zerolog.Logger
	initialEntityCapacity int
}

// SetArchetypeEvents configures the archetype event callbacks
func (c *config) SetArchetypeEvents(ae ArchetypeEvents) {
	c.archetypeEvents = ae
}

func (c *config) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

// SetInitialEntityCapacity sizes the entity location table of new storages.
// Values below one are ignored.
func (c *config) SetInitialEntityCapacity(n int) {
	if n < 1 {
		return
	}
	c.initialEntityCapacity = n
}
