package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/greencircuit/internal/app/system/auth"
)

// AdminEmail is the address used by AdminUser.
const AdminEmail = "admin@greencircuit.test"

// AdminUser returns a signed-in administrator.
func AdminUser() *auth.SessionUser {
	return &auth.SessionUser{Email: AdminEmail, IsAdmin: true}
}

// VisitorUser returns a signed-in user without admin rights.
func VisitorUser() *auth.SessionUser {
	return &auth.SessionUser{Email: "visitor@greencircuit.test"}
}

// NewAdminRequest creates a request carrying an admin session.
func NewAdminRequest(method, target string) *http.Request {
	return auth.WithTestUser(httptest.NewRequest(method, target, nil), AdminUser())
}

// NewAdminJSONRequest encodes body as JSON into an admin request.
func NewAdminJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("encode request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return auth.WithTestUser(req, AdminUser())
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t testing.TB, expected int) {
	t.Helper()
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}
