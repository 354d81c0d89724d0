package action

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"mencrytoo/internal/api"
	"mencrytoo/internal/cache"
	"mencrytoo/internal/media"
	"mencrytoo/internal/model"
	"mencrytoo/internal/session"
)

// newBackend serves canned responses keyed by "METHOD /path" and counts every
// request so tests can prove a handler made no call at all.
func newBackend(t *testing.T, routes map[string]string) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message": "server error"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, &calls
}

func newDispatcher(server *httptest.Server) (*Dispatcher, *cache.MemoryStore) {
	store := cache.NewMemoryStore()
	d := NewDispatcher(
		api.NewClient(server.URL, server.Client()),
		store,
		session.NewManager("test-secret", 3600),
		media.NewProcessor(0),
	)
	return d, store
}

func sessionUser(id int64) *model.SessionUser {
	return &model.SessionUser{ID: id, Username: "tester", Email: "tester@example.com"}
}

func seed(t *testing.T, store *cache.MemoryStore, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if err := store.Set(context.Background(), key, "cached"); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
}

func cached(t *testing.T, store *cache.MemoryStore, key string) bool {
	t.Helper()
	var out string
	hit, err := store.Get(context.Background(), key, &out)
	if err != nil {
		t.Fatalf("Get %s: %v", key, err)
	}
	return hit
}

func TestDispatch_UnknownIntent(t *testing.T) {
	server, calls := newBackend(t, nil)
	d, _ := newDispatcher(server)

	res := d.Dispatch(context.Background(), Submission{Intent: "frobnicate"})
	if res.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", res.Status)
	}
	if calls.Load() != 0 {
		t.Error("an unknown intent must not reach the backend")
	}
}

func TestCreateContact_InvalidSubjectMakesNoCall(t *testing.T) {
	server, calls := newBackend(t, nil)
	d, _ := newDispatcher(server)

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentCreateContact,
		Fields: url.Values{
			"firstName": {"Alice"},
			"lastName":  {"Nguyen"},
			"email":     {"alice@example.com"},
			"subject":   {"Hi"},
			"message":   {"I would like to know more about your groups."},
		},
	})

	if res.Errors == nil {
		t.Fatal("expected field errors")
	}
	if got := res.Errors["subject"]; got != "Subject must be between 3 and 20 characters" {
		t.Errorf("subject error = %q", got)
	}
	if calls.Load() != 0 {
		t.Error("an invalid form must never reach the backend")
	}
}

func TestCreateEvent_CapacityOutOfRangeMakesNoCall(t *testing.T) {
	server, calls := newBackend(t, nil)
	d, _ := newDispatcher(server)

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentCreateEvent,
		User:   sessionUser(1),
		Fields: url.Values{
			"groupId":     {"3"},
			"name":        {"Evening Hike"},
			"description": {"A relaxed evening hike around the lake with a cookout afterwards."},
			"type":        {"In person"},
			"capacity":    {"500"},
			"startDate":   {"2027-05-01T18:00"},
			"endDate":     {"2027-05-01T21:00"},
		},
	})

	if res.Errors["capacity"] != "Capacity must be between 2 and 300" {
		t.Errorf("capacity error = %q", res.Errors["capacity"])
	}
	if calls.Load() != 0 {
		t.Errorf("backend calls = %d, want 0", calls.Load())
	}
}

func TestDeletePost_ClearsOwnFamiliesOnly(t *testing.T) {
	server, _ := newBackend(t, map[string]string{
		"DELETE /api/posts/7/delete": `{}`,
	})
	d, store := newDispatcher(server)
	seed(t, store, "post-7", "posts", "profile-4", "groups")

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentDeletePost,
		User:   sessionUser(4),
		Fields: url.Values{"postId": {"7"}},
	})

	if res.Redirect != "/profile" {
		t.Errorf("redirect = %q, want /profile", res.Redirect)
	}
	for _, key := range []string{"post-7", "posts", "profile-4"} {
		if cached(t, store, key) {
			t.Errorf("key %s should have been invalidated", key)
		}
	}
	if !cached(t, store, "groups") {
		t.Error("unrelated key groups must survive")
	}
}

func TestDeletePost_MissingIDFailsFast(t *testing.T) {
	server, calls := newBackend(t, nil)
	d, store := newDispatcher(server)
	seed(t, store, "posts")

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentDeletePost,
		User:   sessionUser(4),
		Fields: url.Values{},
	})

	if res.Status != http.StatusBadRequest || res.Message != "missing required field: postId" {
		t.Errorf("result = %d %q", res.Status, res.Message)
	}
	if calls.Load() != 0 {
		t.Error("no backend call without an id")
	}
	if !cached(t, store, "posts") {
		t.Error("cache must be untouched on a failed-fast submission")
	}
}

func TestDeleteGroup_BackendErrorLeavesCacheIntact(t *testing.T) {
	// The route map has no entry, so the backend answers 500: the mutation
	// failed and nothing may be invalidated.
	server, _ := newBackend(t, nil)
	d, store := newDispatcher(server)
	seed(t, store, "group-3", "groups")

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentDeleteGroup,
		User:   sessionUser(1),
		Fields: url.Values{"groupId": {"3"}},
	})

	if res.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want the backend's 500", res.Status)
	}
	if res.Message != "server error" {
		t.Errorf("message = %q, want the backend's message", res.Message)
	}
	if !cached(t, store, "group-3") || !cached(t, store, "groups") {
		t.Error("a rejected mutation must not invalidate anything")
	}
}

func TestLikePost_ServerStateWins(t *testing.T) {
	// The server answers a state that contradicts the obvious expectation
	// (liking yielded isLiked=false). The result must carry the server's
	// answer verbatim.
	server, _ := newBackend(t, map[string]string{
		"POST /api/posts/7/like": `{"likes": 3, "isLiked": false}`,
	})
	d, store := newDispatcher(server)
	seed(t, store, "post-7", "posts")

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentLikePost,
		User:   sessionUser(4),
		Fields: url.Values{"postId": {"7"}},
	})

	state, ok := res.Data.(model.LikeState)
	if !ok {
		t.Fatalf("result data = %T, want model.LikeState", res.Data)
	}
	if state.PostID != 7 || state.Likes != 3 || state.IsLiked {
		t.Errorf("state = %+v, want the server's answer", state)
	}
	if cached(t, store, "post-7") || cached(t, store, "posts") {
		t.Error("like must invalidate the post's cache families")
	}
}

func TestJoinGroup_InvalidatesGroupFamilies(t *testing.T) {
	server, _ := newBackend(t, map[string]string{
		"POST /api/groups/3/join-group": `{}`,
	})
	d, store := newDispatcher(server)
	seed(t, store, "group-3", "groups", "profile-4", "events")

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentJoinGroup,
		User:   sessionUser(4),
		Fields: url.Values{"groupId": {"3"}},
	})

	if res.Redirect != "/groups/3" {
		t.Errorf("redirect = %q, want /groups/3", res.Redirect)
	}
	if cached(t, store, "group-3") || cached(t, store, "groups") || cached(t, store, "profile-4") {
		t.Error("join must invalidate the group detail, the groups list and the profile")
	}
	if !cached(t, store, "events") {
		t.Error("events family is untouched by a join")
	}
}

func TestAttendEvent_ClearsOwningGroup(t *testing.T) {
	// The group detail page caches the group's event list with attendee
	// counts, so attending sweeps the owning group family too.
	server, _ := newBackend(t, map[string]string{
		"POST /api/events/7/attend-event": `{}`,
	})
	d, store := newDispatcher(server)
	seed(t, store, "event-7", "events", "group-3", "groups", "posts")

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentAttendEvent,
		User:   sessionUser(4),
		Fields: url.Values{"eventId": {"7"}, "groupId": {"3"}},
	})

	if res.Redirect != "/events/7" {
		t.Errorf("redirect = %q, want /events/7", res.Redirect)
	}
	for _, key := range []string{"event-7", "events", "group-3", "groups"} {
		if cached(t, store, key) {
			t.Errorf("key %s should have been invalidated", key)
		}
	}
	if !cached(t, store, "posts") {
		t.Error("posts family is untouched by attending an event")
	}
}

func TestLeaveEvent_ClearsOwningGroup(t *testing.T) {
	server, _ := newBackend(t, map[string]string{
		"DELETE /api/events/7/leave-event/4": `{}`,
	})
	d, store := newDispatcher(server)
	seed(t, store, "event-7", "group-3")

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentLeaveEvent,
		User:   sessionUser(4),
		Fields: url.Values{"eventId": {"7"}, "groupId": {"3"}},
	})

	if res.Redirect != "/events/7" {
		t.Errorf("redirect = %q, want /events/7", res.Redirect)
	}
	if cached(t, store, "event-7") || cached(t, store, "group-3") {
		t.Error("leaving must invalidate the event and its owning group")
	}
}

func TestAttendEvent_RequiresSession(t *testing.T) {
	server, calls := newBackend(t, nil)
	d, _ := newDispatcher(server)

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentAttendEvent,
		Fields: url.Values{"eventId": {"7"}},
	})

	if res.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", res.Status)
	}
	if calls.Load() != 0 {
		t.Error("no backend call without a session")
	}
}

func TestDeleteProfile_DropsEverythingAndEndsSession(t *testing.T) {
	server, _ := newBackend(t, map[string]string{
		"DELETE /api/users/4/delete": `{}`,
	})
	d, store := newDispatcher(server)
	seed(t, store, "groups", "events", "posts", "profile-4", "tags")

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentDeleteProfile,
		User:   sessionUser(4),
	})

	if res.Redirect != "/" {
		t.Errorf("redirect = %q, want /", res.Redirect)
	}
	if store.Len() != 0 {
		t.Errorf("cache entries = %d, want 0", store.Len())
	}
	if len(res.SetCookies) != 1 || res.SetCookies[0].MaxAge != -1 {
		t.Error("the session cookie must be cleared")
	}
}

func TestCreateComment_MissingBodyFailsFast(t *testing.T) {
	server, calls := newBackend(t, nil)
	d, _ := newDispatcher(server)

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentCreateComment,
		User:   sessionUser(4),
		Fields: url.Values{"postId": {"7"}},
	})

	if res.Status != http.StatusBadRequest || res.Message != "missing required field: comment" {
		t.Errorf("result = %d %q", res.Status, res.Message)
	}
	if calls.Load() != 0 {
		t.Error("no backend call with an empty comment")
	}
}

func TestNetworkFailureIsGenericBanner(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // unreachable backend

	d, store := newDispatcher(server)
	seed(t, store, "posts")

	res := d.Dispatch(context.Background(), Submission{
		Intent: IntentDeletePost,
		User:   sessionUser(4),
		Fields: url.Values{"postId": {"7"}},
	})

	if res.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", res.Status)
	}
	if res.Message != "network error, please try again" {
		t.Errorf("message = %q", res.Message)
	}
	if !cached(t, store, "posts") {
		t.Error("a network failure must not invalidate anything")
	}
}
