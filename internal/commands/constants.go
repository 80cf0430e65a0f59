package commands

// Shared command constants
const (
	// OptionsUsage is the usage suffix shown for command options
	OptionsUsage = "[OPTIONS]"
)
