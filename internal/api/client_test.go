package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_ForwardsCookies(t *testing.T) {
	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	if err := client.Get(context.Background(), "/api/groups/1", "token=abc; mct_session=xyz", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if gotCookie != "token=abc; mct_session=xyz" {
		t.Errorf("forwarded cookie = %q, want the browser's cookie header", gotCookie)
	}
}

func TestClient_StructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Group couldn't be found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	err := client.Get(context.Background(), "/api/groups/999", "", nil)
	if err == nil {
		t.Fatal("expected an error for a 404")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", apiErr.Status)
	}
	if apiErr.Message != "Group couldn't be found" {
		t.Errorf("message = %q, want the server's message", apiErr.Message)
	}
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	err := client.Get(context.Background(), "/api/groups", "", nil)

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Message == "" {
		t.Error("expected a fallback message when the body is unreadable")
	}
}

func TestClient_NetworkErrorIsNotStructured(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, nil)
	err := client.Get(context.Background(), "/api/groups", "", nil)
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Error("a transport failure must not look like a structured backend error")
	}
}

func TestGetList_BareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1}, {"id": 2}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	var items []struct {
		ID int64 `json:"id"`
	}
	if err := client.GetList(context.Background(), "/api/events", "", "events", &items); err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("items = %d, want 2", len(items))
	}
}

func TestGetList_PaginatedWrapper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Events": [{"id": 1}], "pagination": {"page": 1, "size": 20}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	var items []struct {
		ID int64 `json:"id"`
	}
	// Key matching is case-insensitive: the backend answers "Events".
	if err := client.GetList(context.Background(), "/api/events", "", "events", &items); err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if len(items) != 1 || items[0].ID != 1 {
		t.Errorf("items = %v, want the unwrapped array", items)
	}
}

func TestDecodeList_MissingKeyIsEmpty(t *testing.T) {
	var items []struct{}
	if err := DecodeList(json.RawMessage(`{"pagination": {}}`), "events", &items); err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %d, want 0", len(items))
	}
}

func TestClient_PostMultipart(t *testing.T) {
	var gotField, gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("server parse multipart: %v", err)
		}
		gotField = r.FormValue("name")
		if files := r.MultipartForm.File["image"]; len(files) == 1 {
			gotFilename = files[0].Filename
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 5}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	var created struct {
		ID int64 `json:"id"`
	}
	fields := map[string][]string{"name": {"Trailblazers"}}
	files := []File{{Field: "image", Name: "pic.jpg", ContentType: "image/jpeg", Data: []byte("fake")}}

	if err := client.PostMultipart(context.Background(), "/api/groups/new", "", fields, files, &created); err != nil {
		t.Fatalf("PostMultipart: %v", err)
	}
	if created.ID != 5 {
		t.Errorf("created id = %d, want 5", created.ID)
	}
	if gotField != "Trailblazers" {
		t.Errorf("form field = %q, want Trailblazers", gotField)
	}
	if gotFilename != "pic.jpg" {
		t.Errorf("filename = %q, want pic.jpg", gotFilename)
	}
}
