package capability

import (
	"context"
	"errors"
	"testing"
)

func TestRunKeepsTableOrder(t *testing.T) {
	var order []string
	probe := func(name string, err error) func(context.Context) error {
		return func(context.Context) error {
			order = append(order, name)
			return err
		}
	}

	results := Run(context.Background(), []Check{
		{Name: Chat, Probe: probe(Chat, nil)},
		{Name: Weather, Probe: probe(Weather, errors.New("unreachable"))},
		{Name: News, Probe: probe(News, nil)},
	})

	if len(order) != 3 || order[0] != Chat || order[1] != Weather || order[2] != News {
		t.Fatalf("unexpected probe order: %v", order)
	}
	if !results[0].Enabled || results[1].Enabled || !results[2].Enabled {
		t.Fatalf("unexpected results: %+v", results)
	}
	if results[1].Err == nil {
		t.Fatal("expected weather error to be recorded")
	}
}

func TestRunSkipsUnconfigured(t *testing.T) {
	results := Run(context.Background(), []Check{
		{Name: Weather, Probe: nil},
	})

	if results[0].Enabled {
		t.Fatal("unconfigured check must stay disabled")
	}
	if results[0].Err != nil {
		t.Fatalf("unconfigured check is not a failure: %v", results[0].Err)
	}
}

func TestFromResults(t *testing.T) {
	caps := FromResults([]Result{
		{Name: Chat, Enabled: true},
		{Name: Weather, Enabled: false},
		{Name: News, Enabled: true},
	})

	if !caps.Chat || caps.Weather || !caps.News {
		t.Fatalf("unexpected capabilities: %+v", caps)
	}
}
