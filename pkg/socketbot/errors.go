package socketbot

import "fmt"

// ConfigurationError is returned by New when a required setting is missing.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	switch e.Field {
	case "id":
		return fmt.Sprintf("bots of type '%s' are expected to have 'id' in their settings", Type)
	default:
		return fmt.Sprintf("bots of type '%s' must be defined with '%s' in their settings", Type, e.Field)
	}
}
