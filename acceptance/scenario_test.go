package acceptance

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// Walks one bicycle through its whole life: registered by an admin,
// linked by its owner, contested by another rider, activated, and put
// into a panic state.
func TestBicycleLifecycleScenario(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	ts.CreateRider(t, "rider-42")
	ts.CreateRider(t, "rider-7")

	w := ts.AdminPOST(t, "/admin/bicycles", map[string]string{"name": "Commuter", "hardwareCode": "BK-100"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	var registered bicycleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &registered); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if registered.Active {
		t.Errorf("freshly registered bicycle should be inactive: %s", spew.Sdump(registered))
	}

	w = ts.POST("/bicycles/link", map[string]string{"hardwareCode": "BK-100"}, asRider("rider-42"))
	if w.Code != http.StatusOK {
		t.Fatalf("link: expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	w = ts.POST("/bicycles/link", map[string]string{"hardwareCode": "BK-100"}, asRider("rider-7"))
	if w.Code != http.StatusConflict {
		t.Fatalf("second link: expected %d, got %d: %s", http.StatusConflict, w.Code, w.Body.String())
	}

	bikeID := registered.ID.String()

	w = ts.POST("/bicycles/"+bikeID+"/active", map[string]bool{"active": true}, asRider("rider-42"))
	if w.Code != http.StatusOK {
		t.Fatalf("activate: expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var activated bicycleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &activated); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !activated.Active {
		t.Fatalf("expected active=true: %s", spew.Sdump(activated))
	}

	w = ts.POST("/bicycles/"+bikeID+"/panic", map[string]interface{}{
		"active": true, "latitude": 19.4, "longitude": -99.1,
	}, asRider("rider-42"))
	if w.Code != http.StatusOK {
		t.Fatalf("engage panic: expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	state := ts.safetyState(t, bikeID, "panic", "rider-42")
	if !state.Active || state.Latitude == nil || *state.Latitude != 19.4 || state.Longitude == nil || *state.Longitude != -99.1 {
		t.Errorf("expected panic Active(19.4, -99.1), got %s", spew.Sdump(state))
	}
}
