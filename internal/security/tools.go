package security

import (
	"github.com/sahilm/fuzzy"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
)

// ValidateTools checks that every solver key and the consensus key exist in
// the registry and name an allowlisted command.
func ValidateTools(solvers []string, consensus string, registry *core.Registry) error {
	for _, key := range solvers {
		if err := validateTool(key, registry); err != nil {
			return err
		}
	}
	return validateTool(consensus, registry)
}

func validateTool(key string, registry *core.Registry) error {
	spec, ok := registry.Get(key)
	if !ok {
		err := core.ErrToolNotFound(key)
		if s := Suggest(key, registry.Keys()); s != "" {
			err = err.WithHint("did you mean '" + s + "'?")
		}
		return err
	}
	return ValidateCommand(spec.Command)
}

// Suggest returns the closest known key to key, or "" when nothing matches.
func Suggest(key string, known []string) string {
	if key == "" || len(known) == 0 {
		return ""
	}
	matches := fuzzy.Find(key, known)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
