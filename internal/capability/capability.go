package capability

import (
	"context"
	"log"
)

// Collaborator names used in the startup check table.
const (
	Chat    = "chat"
	Weather = "weather"
	News    = "news"
)

// Check is one named startup probe. A nil Probe marks the collaborator as not
// configured: it is skipped rather than failed.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Result records the outcome of one check.
type Result struct {
	Name    string
	Enabled bool
	Err     error
}

// Run executes the checks in table order and reports per-collaborator
// outcomes. A failing probe disables that collaborator for the life of the
// process; it never aborts startup.
func Run(ctx context.Context, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		if check.Probe == nil {
			log.Printf("[capability] %s not configured, skipping", check.Name)
			results = append(results, Result{Name: check.Name})
			continue
		}

		log.Printf("[capability] checking %s...", check.Name)
		if err := check.Probe(ctx); err != nil {
			log.Printf("[capability] %s is down: %v", check.Name, err)
			results = append(results, Result{Name: check.Name, Err: err})
			continue
		}

		log.Printf("[capability] %s is working", check.Name)
		results = append(results, Result{Name: check.Name, Enabled: true})
	}
	return results
}

// Capabilities is the immutable availability snapshot produced once at
// startup and passed to the services. It replaces mutable process-wide
// subsystem flags.
type Capabilities struct {
	Chat    bool
	Weather bool
	News    bool
}

// FromResults folds check results into a Capabilities snapshot.
func FromResults(results []Result) Capabilities {
	var caps Capabilities
	for _, result := range results {
		switch result.Name {
		case Chat:
			caps.Chat = result.Enabled
		case Weather:
			caps.Weather = result.Enabled
		case News:
			caps.News = result.Enabled
		}
	}
	return caps
}
