package routes

import (
	"net/http"
	"testing"

	"campuslink-server/models"
)

func TestTypingRequiresToken(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/threads/any/typing", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestTypingHiddenFromOutsiders(t *testing.T) {
	app := buildTestApp(t)
	seedRouteUser(t, "alice", "c1", models.PlanFree)
	seedRouteUser(t, "bob", "c1", models.PlanFree)
	seedRouteUser(t, "eve", "c1", models.PlanFree)

	resp := doJSON(t, app, http.MethodPost, "/api/threads", signTestToken(t, "alice"), map[string]string{"targetUserID": "bob"})
	if resp.Code != http.StatusOK {
		t.Fatalf("create thread: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	threadID := decodeBody(t, resp)["threadID"].(string)

	// A non-participant gets the same 404 as a missing thread, for both the
	// write and the read side, without the endpoint touching the flag store.
	resp = doJSON(t, app, http.MethodPost, "/api/threads/"+threadID+"/typing", signTestToken(t, "eve"), nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("outsider typing: expected 404, got %d", resp.Code)
	}
	resp = doJSON(t, app, http.MethodGet, "/api/threads/"+threadID+"/typing", signTestToken(t, "eve"), nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("outsider list typing: expected 404, got %d", resp.Code)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/threads/missing__thread/typing", signTestToken(t, "alice"), nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("missing thread typing: expected 404, got %d", resp.Code)
	}
}
