package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mluna/hogarledger/internal/models"
	"github.com/mluna/hogarledger/internal/service"
	"github.com/mluna/hogarledger/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "hogarledger-server-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	expenses := service.NewExpenseService(store)
	srv := New(
		service.NewMemberService(store),
		expenses,
		service.NewSettlementService(store, expenses),
		service.NewPlanService(store),
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, userID string, body any, out any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp
}

func TestExpenseToSettlementOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	var group models.Group
	resp := postJSON(t, ts, "/api/groups", "", map[string]string{"name": "Casa"}, &group)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create group status = %d", resp.StatusCode)
	}

	var ana, bea models.User
	postJSON(t, ts, "/api/users", "", map[string]string{"name": "Ana", "group_id": group.ID}, &ana)
	postJSON(t, ts, "/api/users", "", map[string]string{"name": "Bea", "group_id": group.ID}, &bea)

	resp = postJSON(t, ts, "/api/expenses", ana.ID, map[string]any{
		"group_id":    group.ID,
		"amount":      100.0,
		"description": "compra semanal",
		"occurred_at": 1714730400, // 2024-05-03
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record expense status = %d", resp.StatusCode)
	}

	var summary models.MonthlySummary
	resp = getJSON(t, ts, fmt.Sprintf("/api/groups/%s/summary?month=5&year=2024", group.ID), &summary)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status = %d", resp.StatusCode)
	}
	if summary.DebtAmount != 50 || summary.DebtorID != bea.ID {
		t.Errorf("summary settlement = %+v, want Bea owing 50", summary)
	}

	confirm := map[string]int{"month": 5, "year": 2024}
	postJSON(t, ts, "/api/periods/confirm", ana.ID, confirm, nil)
	var state models.PeriodState
	postJSON(t, ts, "/api/periods/confirm", bea.ID, confirm, &state)
	if !state.Calculated {
		t.Errorf("period not calculated after both confirmations: %+v", state)
	}
}

func TestPeriodQueriesOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	var group models.Group
	postJSON(t, ts, "/api/groups", "", map[string]string{"name": "Casa"}, &group)
	var ana, bea models.User
	postJSON(t, ts, "/api/users", "", map[string]string{"name": "Ana", "group_id": group.ID}, &ana)
	postJSON(t, ts, "/api/users", "", map[string]string{"name": "Bea", "group_id": group.ID}, &bea)

	postJSON(t, ts, "/api/periods/confirm", ana.ID, map[string]int{"month": 5, "year": 2024}, nil)

	var count map[string]int
	resp := getJSON(t, ts, fmt.Sprintf("/api/groups/%s/confirmation-count?month=5&year=2024", group.ID), &count)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirmation count status = %d", resp.StatusCode)
	}
	if count["count"] != 1 {
		t.Errorf("count = %d, want 1", count["count"])
	}

	// Bea can read the period through her own identity without knowing the
	// group ID.
	var state models.PeriodState
	resp = getJSON(t, ts, fmt.Sprintf("/api/users/%s/period?month=5&year=2024", bea.ID), &state)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("period by user status = %d", resp.StatusCode)
	}
	if state.GroupID != group.ID || !state.Confirmed(ana.ID) {
		t.Errorf("period by user = %+v, want Ana's confirmation in group %s", state, group.ID)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	ts := newTestServer(t)

	t.Run("unknown group is 404", func(t *testing.T) {
		resp := getJSON(t, ts, "/api/groups/nope", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("invalid expense is 400", func(t *testing.T) {
		var group models.Group
		postJSON(t, ts, "/api/groups", "", map[string]string{"name": "Casa"}, &group)
		var user models.User
		postJSON(t, ts, "/api/users", "", map[string]string{"name": "Ana", "group_id": group.ID}, &user)

		resp := postJSON(t, ts, "/api/expenses", user.ID, map[string]any{
			"group_id":    group.ID,
			"amount":      -1.0,
			"description": "x",
		}, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("missing identity is 400", func(t *testing.T) {
		resp := postJSON(t, ts, "/api/expenses", "", map[string]any{"amount": 1.0}, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out any) *http.Response {
	t.Helper()

	resp, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp
}
