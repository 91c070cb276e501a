package uri

import "fmt"

// ConfigurationError reports a template that cannot be resolved.
type ConfigurationError struct {
	Key         string
	Placeholder string
	Reason      string
}

func (e *ConfigurationError) Error() string {
	if e.Placeholder != "" {
		return fmt.Sprintf("uri template %q: %s %q", e.Key, e.Reason, e.Placeholder)
	}

	return fmt.Sprintf("uri template %q: %s", e.Key, e.Reason)
}
