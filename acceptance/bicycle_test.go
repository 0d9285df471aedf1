package acceptance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/veloguard/tracker-backend/bicycle"
)

type bicycleResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	HardwareCode string     `json:"hardwareCode"`
	OwnerID      *uuid.UUID `json:"ownerId"`
	Active       bool       `json:"active"`
}

func TestLinkByCode_Success(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	riderID := ts.CreateRider(t, "rider-1")
	ts.CreateBicycle(t, "Commuter", "BK-001", nil, false)

	w := ts.POST("/bicycles/link", map[string]string{"hardwareCode": "BK-001"}, asRider("rider-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp bicycleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.OwnerID == nil || *resp.OwnerID != riderID {
		t.Errorf("expected ownerId %s, got %v", riderID, resp.OwnerID)
	}
}

func TestLinkByCode_UnknownCode(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	ts.CreateRider(t, "rider-1")

	w := ts.POST("/bicycles/link", map[string]string{"hardwareCode": "NO-SUCH"}, asRider("rider-1"))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d: %s", http.StatusNotFound, w.Code, w.Body.String())
	}
}

func TestLinkByCode_AlreadyLinked(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	ownerID := ts.CreateRider(t, "rider-1")
	ts.CreateRider(t, "rider-2")
	ts.CreateBicycle(t, "Commuter", "BK-001", &ownerID, false)

	w := ts.POST("/bicycles/link", map[string]string{"hardwareCode": "BK-001"}, asRider("rider-2"))
	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d: %s", http.StatusConflict, w.Code, w.Body.String())
	}
}

func TestLinkByCode_SameOwnerIsIdempotent(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	ownerID := ts.CreateRider(t, "rider-1")
	ts.CreateBicycle(t, "Commuter", "BK-001", &ownerID, false)

	w := ts.POST("/bicycles/link", map[string]string{"hardwareCode": "BK-001"}, asRider("rider-1"))
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

// Two riders race to claim the same unlinked code: exactly one wins.
func TestLinkByCode_Concurrent(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	riderA := ts.CreateRider(t, "rider-a")
	riderB := ts.CreateRider(t, "rider-b")
	ts.CreateBicycle(t, "Commuter", "BK-RACE", nil, false)

	ctx := context.Background()
	results := make([]error, 2)

	var wg sync.WaitGroup
	for i, id := range []uuid.UUID{riderA, riderB} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = ts.BicycleRepo.LinkByCode(ctx, "BK-RACE", id)
		}()
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, bicycle.ErrAlreadyLinked):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Errorf("expected exactly one winner and one conflict, got %d wins, %d conflicts", wins, conflicts)
	}
}

func TestSetActive_Idempotent(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	riderID := ts.CreateRider(t, "rider-1")
	bikeID := ts.CreateBicycle(t, "Commuter", "BK-001", &riderID, false)

	for range 2 {
		w := ts.POST("/bicycles/"+bikeID.String()+"/active", map[string]bool{"active": true}, asRider("rider-1"))
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var resp bicycleResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if !resp.Active {
			t.Errorf("expected active=true")
		}
	}
}

func TestSetActive_MissingFlagIsRejected(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	riderID := ts.CreateRider(t, "rider-1")
	bikeID := ts.CreateBicycle(t, "Commuter", "BK-001", &riderID, false)

	w := ts.POST("/bicycles/"+bikeID.String()+"/active", map[string]string{"active": "yes"}, asRider("rider-1"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
	}
}

func TestGetBicycle_NotFound(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	ts.CreateRider(t, "rider-1")

	w := ts.GET("/bicycles/"+uuid.New().String(), asRider("rider-1"))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d: %s", http.StatusNotFound, w.Code, w.Body.String())
	}
}

func TestGetBicycle_OtherRidersBicycleIsHidden(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	ownerID := ts.CreateRider(t, "rider-1")
	ts.CreateRider(t, "rider-2")
	bikeID := ts.CreateBicycle(t, "Commuter", "BK-001", &ownerID, true)

	w := ts.GET("/bicycles/"+bikeID.String(), asRider("rider-2"))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d: %s", http.StatusNotFound, w.Code, w.Body.String())
	}
}

func TestListBicycles_EmptyIsNotAnError(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	ts.CreateRider(t, "rider-1")

	w := ts.GET("/bicycles", asRider("rider-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp []bicycleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp) != 0 {
		t.Errorf("expected empty list, got %d entries", len(resp))
	}
}

func TestAdminRegister_DuplicateCode(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	body := map[string]string{"name": "Commuter", "hardwareCode": "BK-001"}

	w := ts.AdminPOST(t, "/admin/bicycles", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	w = ts.AdminPOST(t, "/admin/bicycles", body)
	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d: %s", http.StatusConflict, w.Code, w.Body.String())
	}
}

func TestAdminReassign_MovesOwnership(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	ownerID := ts.CreateRider(t, "rider-1")
	newOwnerID := ts.CreateRider(t, "rider-2")
	bikeID := ts.CreateBicycle(t, "Commuter", "BK-001", &ownerID, true)

	w := ts.AdminPUT(t, "/admin/bicycles/"+bikeID.String(), map[string]interface{}{
		"name": "Loaner", "ownerId": newOwnerID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp bicycleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Name != "Loaner" || resp.OwnerID == nil || *resp.OwnerID != newOwnerID {
		t.Errorf("expected renamed bicycle owned by rider-2, got %+v", resp)
	}

	// The previous owner no longer sees it.
	w = ts.GET("/bicycles/"+bikeID.String(), asRider("rider-1"))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d: %s", http.StatusNotFound, w.Code, w.Body.String())
	}
}

func TestAdminRoutes_RequireCredentials(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	w := ts.GET("/admin/bicycles", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
