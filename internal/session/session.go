package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mencrytoo/internal/model"
)

// CookieName is the gateway's own session cookie. It carries a signed
// snapshot of the authenticated user; the backend's session cookie is relayed
// separately and forwarded on every API call.
const CookieName = "mct_session"

// Manager mints and verifies session cookies.
type Manager struct {
	secret []byte
	maxAge int
}

func NewManager(secret string, maxAge int) *Manager {
	return &Manager{
		secret: []byte(secret),
		maxAge: maxAge,
	}
}

// Issue returns a session cookie holding the user snapshot.
func (m *Manager) Issue(user *model.SessionUser) (*http.Cookie, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"exp":      time.Now().Add(time.Duration(m.maxAge) * time.Second).Unix(),
		"iat":      time.Now().Unix(),
	}
	if user.ProfileImage != nil {
		claims["profile_image"] = *user.ProfileImage
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Clear returns an expired cookie that logs the browser out.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// FromRequest extracts the user snapshot from the request's session cookie.
// Returns nil, false when there is no valid session; an expired or tampered
// token is indistinguishable from being logged out.
func (m *Manager) FromRequest(r *http.Request) (*model.SessionUser, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	return m.Parse(cookie.Value)
}

// Parse verifies a signed session token and rebuilds the user snapshot.
func (m *Manager) Parse(tokenString string) (*model.SessionUser, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, false
	}

	user := &model.SessionUser{ID: int64(userIDFloat)}
	if username, ok := claims["username"].(string); ok {
		user.Username = username
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if img, ok := claims["profile_image"].(string); ok && img != "" {
		user.ProfileImage = &img
	}

	return user, true
}
