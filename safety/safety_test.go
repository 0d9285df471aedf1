package safety

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestFeatureString(t *testing.T) {
	if got := Panic.String(); got != "panic" {
		t.Errorf("Panic.String() = %q", got)
	}
	if got := GeofenceLock.String(); got != "geofence_lock" {
		t.Errorf("GeofenceLock.String() = %q", got)
	}
}

func TestFeatureMarshalJSON(t *testing.T) {
	b, err := json.Marshal(GeofenceLock)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"geofence_lock"` {
		t.Errorf("marshalled feature = %s", b)
	}
}

func TestFeatureTable(t *testing.T) {
	if Panic.table() != "panic_states" {
		t.Errorf("Panic.table() = %q", Panic.table())
	}
	if GeofenceLock.table() != "geofence_states" {
		t.Errorf("GeofenceLock.table() = %q", GeofenceLock.table())
	}
}

func TestZeroStateIsInactive(t *testing.T) {
	var s State
	if s.Active {
		t.Error("zero State should be inactive")
	}
	if s.Lat != nil || s.Lng != nil {
		t.Error("zero State should carry no location")
	}
}
