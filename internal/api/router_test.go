// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/findfest/findfest/internal/geo"
	"github.com/findfest/findfest/internal/recommend"
	"github.com/findfest/findfest/internal/store"
)

// envelope mirrors models.APIResponse for test decoding.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newTestServer(t *testing.T) (http.Handler, *store.MemoryStore) {
	t.Helper()

	st := store.NewMemoryStore()
	logger := zerolog.Nop()

	scorer, err := recommend.NewScorer(nil, logger, st)
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	aggregator, err := recommend.NewAggregator(st, logger)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	handler := NewHandler(st, scorer, aggregator, logger)
	router := NewRouter(handler, nil)
	return router.Setup(), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope from %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %q: %v", string(env.Data), err)
	}
}

func seedUser(t *testing.T, st *store.MemoryStore, id string, vector recommend.CategoryVector, loc *geo.Coordinate) {
	t.Helper()
	ctx := context.Background()
	if err := st.PutUser(ctx, &recommend.UserProfile{
		ID:                id,
		CategoryFrequency: vector,
		Location:          loc,
	}); err != nil {
		t.Fatalf("PutUser(%s): %v", id, err)
	}
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)
	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if env.Status != "success" {
		t.Errorf("envelope status = %q, want success", env.Status)
	}

	var health struct {
		Status string `json:"status"`
	}
	decodeData(t, env, &health)
	if health.Status != "ok" {
		t.Errorf("health status = %q, want ok", health.Status)
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected generated X-Request-ID header")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "req-fixed")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-fixed" {
		t.Errorf("X-Request-ID = %q, want req-fixed", got)
	}
}

func TestRouter_UserLifecycle(t *testing.T) {
	t.Parallel()

	h, st := newTestServer(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"id":       "alice",
		"location": map[string]float64{"lat": 51.5, "lon": -0.12},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/users/alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var user recommend.UserProfile
	decodeData(t, env, &user)
	if user.ID != "alice" || user.Location == nil || user.Location.Lat != 51.5 {
		t.Errorf("unexpected user: %+v", user)
	}

	// Re-creating an existing user keeps its category counters.
	if err := st.SetUserVector(context.Background(), "alice", recommend.CategoryVector{"music": 3}); err != nil {
		t.Fatalf("SetUserVector: %v", err)
	}
	rec, _ = doJSON(t, h, http.MethodPost, "/api/v1/users", map[string]interface{}{"id": "alice"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("re-create status = %d, want 201", rec.Code)
	}
	vec, err := st.GetUserVector(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserVector: %v", err)
	}
	if vec["music"] != 3 {
		t.Errorf("counters after re-create = %v, want music:3", vec)
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/users/nobody", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing user status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want NOT_FOUND", env.Error)
	}
}

func TestRouter_UserValidation(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing id", map[string]interface{}{}},
		{"out of range location", map[string]interface{}{
			"id":       "bob",
			"location": map[string]float64{"lat": 95, "lon": 0},
		}},
		{"unknown field", map[string]interface{}{"id": "bob", "bogus": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doJSON(t, h, http.MethodPost, "/api/v1/users", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
			}
		})
	}
}

func TestRouter_EventCRUD(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/events", map[string]interface{}{
		"name":       "Jazz Night",
		"categories": []string{"music", "jazz"},
		"location":   map[string]float64{"lat": 51.5, "lon": -0.12},
		"created_by": "alice",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created recommend.Event
	decodeData(t, env, &created)
	if created.ID == "" {
		t.Fatal("expected assigned event ID")
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/events/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var fetched recommend.Event
	decodeData(t, env, &fetched)
	if fetched.Name != "Jazz Night" || len(fetched.Categories) != 2 {
		t.Errorf("unexpected event: %+v", fetched)
	}

	rec, env = doJSON(t, h, http.MethodPut, "/api/v1/events/"+created.ID, map[string]interface{}{
		"name":       "Jazz Night Live",
		"categories": []string{"music"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/events", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var list struct {
		Events []recommend.Event `json:"events"`
		Total  int               `json:"total"`
	}
	decodeData(t, env, &list)
	if list.Total != 1 || list.Events[0].Name != "Jazz Night Live" {
		t.Errorf("unexpected list: %+v", list)
	}

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/v1/events/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}
	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/events/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}

	rec, _ = doJSON(t, h, http.MethodPut, "/api/v1/events/nope", map[string]interface{}{"name": "x"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update missing status = %d, want 404", rec.Code)
	}
	rec, _ = doJSON(t, h, http.MethodDelete, "/api/v1/events/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing status = %d, want 404", rec.Code)
	}
}

func TestRouter_EventValidation(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/events", map[string]interface{}{
		"categories": []string{"music"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/api/v1/events", map[string]interface{}{
		"name":     "Bad Spot",
		"location": map[string]float64{"lat": 12.0, "lon": 200.0},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range location status = %d, want 400", rec.Code)
	}
}

func TestRouter_NearbyEvents(t *testing.T) {
	t.Parallel()

	h, st := newTestServer(t)
	ctx := context.Background()

	events := []*recommend.Event{
		{Name: "Close", Categories: []string{"music"}, Location: &geo.Coordinate{Lat: 51.50, Lon: -0.12}},
		{Name: "Far", Categories: []string{"music"}, Location: &geo.Coordinate{Lat: 48.85, Lon: 2.35}},
		{Name: "Nowhere", Categories: []string{"music"}},
	}
	for _, ev := range events {
		if err := st.CreateEvent(ctx, ev); err != nil {
			t.Fatalf("CreateEvent(%s): %v", ev.Name, err)
		}
	}

	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/events/nearby?lat=51.5&lon=-0.12&radius_km=50", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var nearby struct {
		Events []struct {
			Name       string  `json:"name"`
			DistanceKm float64 `json:"distance_km"`
		} `json:"events"`
		Total    int     `json:"total"`
		RadiusKm float64 `json:"radius_km"`
	}
	decodeData(t, env, &nearby)
	if nearby.Total != 1 || nearby.Events[0].Name != "Close" {
		t.Fatalf("unexpected nearby result: %+v", nearby)
	}
	if nearby.RadiusKm != 50 {
		t.Errorf("radius_km = %v, want 50", nearby.RadiusKm)
	}

	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/events/nearby?lat=51.5", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing lon status = %d, want 400", rec.Code)
	}
	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/events/nearby?lat=91&lon=0", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range status = %d, want 400", rec.Code)
	}
	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/events/nearby?lat=0&lon=0&radius_km=-1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative radius status = %d, want 400", rec.Code)
	}
}

func TestRouter_FollowLifecycle(t *testing.T) {
	t.Parallel()

	h, st := newTestServer(t)
	seedUser(t, st, "alice", recommend.CategoryVector{}, nil)
	seedUser(t, st, "bob", recommend.CategoryVector{}, nil)

	rec, _ := doJSON(t, h, http.MethodPut, "/api/v1/users/alice/following/bob", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("follow status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	// Idempotent.
	rec, _ = doJSON(t, h, http.MethodPut, "/api/v1/users/alice/following/bob", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat follow status = %d, want 200", rec.Code)
	}

	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/users/alice/following", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var following struct {
		Following []string `json:"following"`
		Total     int      `json:"total"`
	}
	decodeData(t, env, &following)
	if following.Total != 1 || following.Following[0] != "bob" {
		t.Errorf("unexpected following: %+v", following)
	}

	rec, _ = doJSON(t, h, http.MethodPut, "/api/v1/users/alice/following/alice", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("self-follow status = %d, want 400", rec.Code)
	}
	rec, _ = doJSON(t, h, http.MethodPut, "/api/v1/users/alice/following/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("follow missing target status = %d, want 404", rec.Code)
	}

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/v1/users/alice/following/bob", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unfollow status = %d, want 200", rec.Code)
	}
	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/users/alice/following", nil)
	decodeData(t, env, &following)
	if following.Total != 0 {
		t.Errorf("following after unfollow = %+v, want empty", following)
	}
	// Unfollowing an absent edge is a no-op.
	rec, _ = doJSON(t, h, http.MethodDelete, "/api/v1/users/alice/following/bob", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat unfollow status = %d, want 200", rec.Code)
	}
}

func TestRouter_RSVPLifecycle(t *testing.T) {
	t.Parallel()

	h, st := newTestServer(t)
	ctx := context.Background()
	seedUser(t, st, "alice", recommend.CategoryVector{}, nil)

	event := &recommend.Event{Name: "Jazz Night", Categories: []string{"music", "jazz"}}
	if err := st.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	base := "/api/v1/events/" + event.ID + "/rsvp"

	rec, _ := doJSON(t, h, http.MethodPost, base, map[string]string{"user_id": "alice"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("confirm status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	vec, err := st.GetUserVector(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserVector: %v", err)
	}
	if vec["music"] != 1 || vec["jazz"] != 1 {
		t.Errorf("vector after confirm = %v, want music:1 jazz:1", vec)
	}

	// Repeating a confirm does not double-count.
	rec, _ = doJSON(t, h, http.MethodPost, base, map[string]string{"user_id": "alice"})
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat confirm status = %d, want 200", rec.Code)
	}
	vec, _ = st.GetUserVector(ctx, "alice")
	if vec["music"] != 1 {
		t.Errorf("vector after repeat confirm = %v, want music:1", vec)
	}

	rec, env := doJSON(t, h, http.MethodGet, base+"?user_id=alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status status = %d, want 200", rec.Code)
	}
	var status rsvpResponse
	decodeData(t, env, &status)
	if !status.Status {
		t.Error("expected confirmed RSVP status")
	}

	rec, env = doJSON(t, h, http.MethodGet, base+"/count", nil)
	var count struct {
		Count int `json:"count"`
	}
	decodeData(t, env, &count)
	if count.Count != 1 {
		t.Errorf("count = %d, want 1", count.Count)
	}

	rec, _ = doJSON(t, h, http.MethodDelete, base+"?user_id=alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d, want 200", rec.Code)
	}
	vec, _ = st.GetUserVector(ctx, "alice")
	if len(vec) != 0 {
		t.Errorf("vector after cancel = %v, want empty", vec)
	}
	rec, env = doJSON(t, h, http.MethodGet, base+"/count", nil)
	decodeData(t, env, &count)
	if count.Count != 0 {
		t.Errorf("count after cancel = %d, want 0", count.Count)
	}

	// Cancelling again stays a no-op.
	rec, _ = doJSON(t, h, http.MethodDelete, base+"?user_id=alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat cancel status = %d, want 200", rec.Code)
	}

	// Status queries never create documents.
	rec, env = doJSON(t, h, http.MethodGet, base+"?user_id=ghost", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("absent status = %d, want 200", rec.Code)
	}
	decodeData(t, env, &status)
	if status.Status {
		t.Error("expected false status for absent RSVP")
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/api/v1/events/ghost/rsvp", map[string]string{"user_id": "alice"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("confirm missing event status = %d, want 404", rec.Code)
	}
	rec, _ = doJSON(t, h, http.MethodDelete, base, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("cancel without user_id status = %d, want 400", rec.Code)
	}
}

func TestRouter_Recommendations(t *testing.T) {
	t.Parallel()

	h, st := newTestServer(t)
	ctx := context.Background()

	seedUser(t, st, "alice", recommend.CategoryVector{"music": 5}, nil)
	if err := st.SetGlobalVector(ctx, recommend.CategoryVector{"music": 5}); err != nil {
		t.Fatalf("SetGlobalVector: %v", err)
	}
	for _, ev := range []*recommend.Event{
		{Name: "Concert", Categories: []string{"music"}},
		{Name: "Hackathon", Categories: []string{"tech"}},
	} {
		if err := st.CreateEvent(ctx, ev); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/recommendations", map[string]string{"user_id": "alice"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp recommend.Response
	decodeData(t, env, &resp)
	if resp.TotalCandidates != 2 || len(resp.Recommendations) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Recommendations[0].Name != "Concert" {
		t.Errorf("top recommendation = %q, want Concert", resp.Recommendations[0].Name)
	}
	if resp.Metadata.ColdStart {
		t.Error("known user should not be cold start")
	}

	rec, env = doJSON(t, h, http.MethodPost, "/api/v1/recommendations", map[string]string{})
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous status = %d, want 200", rec.Code)
	}
	decodeData(t, env, &resp)
	if !resp.Metadata.ColdStart {
		t.Error("anonymous request should be cold start")
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{
		"user_id":  "alice",
		"location": map[string]float64{"lat": 123, "lon": 0},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid location status = %d, want 400", rec.Code)
	}
}

func TestRouter_NotFoundRoute(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)
	rec, _ := doJSON(t, h, http.MethodGet, "/api/v1/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
