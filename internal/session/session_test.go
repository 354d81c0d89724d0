package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mencrytoo/internal/model"
)

func TestIssueParseRoundTrip(t *testing.T) {
	m := NewManager("secret", 3600)

	img := "/uploads/avatar.jpg"
	cookie, err := m.Issue(&model.SessionUser{
		ID:           4,
		Username:     "tester",
		Email:        "tester@example.com",
		ProfileImage: &img,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if cookie.Name != CookieName || !cookie.HttpOnly {
		t.Errorf("cookie = %+v, want an HttpOnly %s cookie", cookie, CookieName)
	}

	user, ok := m.Parse(cookie.Value)
	if !ok {
		t.Fatal("Parse rejected a freshly issued token")
	}
	if user.ID != 4 || user.Username != "tester" || user.Email != "tester@example.com" {
		t.Errorf("user = %+v", user)
	}
	if user.ProfileImage == nil || *user.ProfileImage != img {
		t.Error("profile image did not survive the round trip")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cookie, err := NewManager("secret-a", 3600).Issue(&model.SessionUser{ID: 4, Username: "tester"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, ok := NewManager("secret-b", 3600).Parse(cookie.Value); ok {
		t.Error("a token signed with another secret must not verify")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewManager("secret", -10)
	cookie, err := m.Issue(&model.SessionUser{ID: 4, Username: "tester"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, ok := m.Parse(cookie.Value); ok {
		t.Error("an expired token must not verify")
	}
}

func TestFromRequest(t *testing.T) {
	m := NewManager("secret", 3600)
	cookie, err := m.Issue(&model.SessionUser{ID: 4, Username: "tester"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/profile", nil)
	r.AddCookie(cookie)

	user, ok := m.FromRequest(r)
	if !ok || user.ID != 4 {
		t.Errorf("user = %+v ok = %v", user, ok)
	}

	if _, ok := m.FromRequest(httptest.NewRequest(http.MethodGet, "/profile", nil)); ok {
		t.Error("a request without the cookie has no session")
	}
}

func TestClear(t *testing.T) {
	cookie := NewManager("secret", 3600).Clear()
	if cookie.Name != CookieName || cookie.MaxAge != -1 || cookie.Value != "" {
		t.Errorf("cookie = %+v, want an expired empty %s cookie", cookie, CookieName)
	}
}
