package catalog

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/argus-dev/argus/internal/models"
)

func sampleCatalog() models.Catalog {
	start := time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC)

	return models.Catalog{
		Accounts: []models.Account{{
			Name:       "acct1",
			AccountSID: "AC123",
			AuthToken:  "secret",
			FromNumber: "+15550000000",
			TwiMLURL:   "https://handler.twilio.com/bin/abc",
			Recipients: []string{"+15551111111", "+15552222222"},
			Methods:    []models.Method{models.MethodCall, models.MethodSMS},
		}},
		Jobs: []models.Job{
			{
				Name:        "j1",
				Target:      "https://example.com/health",
				Kind:        models.JobKindPublic,
				Pattern:     "OK",
				AcceptCodes: []int{200, 204},
			},
			{
				Name:   "j2",
				Target: "http://intranet.corp/health",
				Kind:   models.JobKindIntranet,
				Proxy:  "http://proxy.corp:8080",
			},
		},
		Alerts: []models.Alert{{
			Name:         "a1",
			JobName:      "j1",
			AccountName:  "acct1",
			Interval:     300,
			ConfirmDelay: 300,
			Label:        "outage",
			RunState:     models.RunStateRunning,
			HealthState:  models.HealthAlerting,
		}},
		SilencePeriods: []models.SilencePeriod{{
			Start:  start,
			End:    start.Add(2 * time.Hour),
			Reason: "planned maintenance",
		}},
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	store := NewStore(path)

	want := sampleCatalog()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Run-state and health reset on load.
	want.Alerts[0].RunState = models.RunStateStopped
	want.Alerts[0].HealthState = models.HealthOK

	if !reflect.DeepEqual(got.Accounts, want.Accounts) {
		t.Errorf("accounts did not round-trip:\ngot  %+v\nwant %+v", got.Accounts, want.Accounts)
	}
	if !reflect.DeepEqual(got.Jobs, want.Jobs) {
		t.Errorf("jobs did not round-trip:\ngot  %+v\nwant %+v", got.Jobs, want.Jobs)
	}
	if !reflect.DeepEqual(got.Alerts, want.Alerts) {
		t.Errorf("alerts did not round-trip:\ngot  %+v\nwant %+v", got.Alerts, want.Alerts)
	}
	if len(got.SilencePeriods) != 1 || !got.SilencePeriods[0].Start.Equal(want.SilencePeriods[0].Start) ||
		!got.SilencePeriods[0].End.Equal(want.SilencePeriods[0].End) ||
		got.SilencePeriods[0].Reason != want.SilencePeriods[0].Reason {
		t.Errorf("silence periods did not round-trip:\ngot  %+v\nwant %+v", got.SilencePeriods, want.SilencePeriods)
	}
}

func TestLoadMissingFileYieldsEmptyCatalog(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"))

	cat, err := store.Load()
	if err != nil {
		t.Fatalf("Load of missing file must not fail: %v", err)
	}
	if len(cat.Accounts) != 0 || len(cat.Jobs) != 0 || len(cat.Alerts) != 0 || len(cat.SilencePeriods) != 0 {
		t.Fatalf("expected empty catalog, got %+v", cat)
	}
}

func TestSaveOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	store := NewStore(path)

	if err := store.Save(sampleCatalog()); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	second := sampleCatalog()
	second.Jobs = second.Jobs[:1]
	if err := store.Save(second); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Jobs) != 1 {
		t.Fatalf("expected rewritten catalog with 1 job, got %d", len(got.Jobs))
	}
}
