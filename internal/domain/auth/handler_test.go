package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func doLogin(t *testing.T, f *fixture, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(f.svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

func TestLogin_Success(t *testing.T) {
	f := newFixture()
	p := f.addPatient(t, "John", "Doe", time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC))
	f.addUser(t, "john_doe", "s3cret", RolePatient, &p.ID)

	rec := doLogin(t, f, `{"username":"john_doe","password":"s3cret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res Result
	json.Unmarshal(rec.Body.Bytes(), &res)
	if res.Role != RolePatient {
		t.Errorf("expected role patient, got %s", res.Role)
	}
	if res.Patient == nil || res.Patient.AgeGroup != "9-12" {
		t.Error("expected a 9-12 patient session")
	}
	// The stored hash never appears in the response.
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response leaked credential material")
	}
}

func TestLogin_ClientRoleIgnored(t *testing.T) {
	f := newFixture()
	f.addUser(t, "mom", "pw", RoleParent, nil)

	// The role field in the request body must not influence the result.
	rec := doLogin(t, f, `{"username":"mom","password":"pw","role":"admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res Result
	json.Unmarshal(rec.Body.Bytes(), &res)
	if res.Role != RoleParent {
		t.Errorf("expected stored role parent, got %s", res.Role)
	}
	if res.CanAccessAdmin {
		t.Error("client-supplied role must never grant admin access")
	}
}

func TestLogin_MissingFields(t *testing.T) {
	f := newFixture()
	rec := doLogin(t, f, `{"username":"bob"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestLogin_UnknownUserVsWrongPassword(t *testing.T) {
	f := newFixture()
	f.addUser(t, "mom", "pw", RoleParent, nil)

	// Unknown user: 404. Wrong password: 401. Same generic message for both.
	recNotFound := doLogin(t, f, `{"username":"ghost","password":"pw"}`)
	recWrongPw := doLogin(t, f, `{"username":"mom","password":"nope"}`)

	if recNotFound.Code != http.StatusNotFound {
		t.Errorf("unknown user: expected 404, got %d", recNotFound.Code)
	}
	if recWrongPw.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", recWrongPw.Code)
	}

	var e1, e2 loginError
	json.Unmarshal(recNotFound.Body.Bytes(), &e1)
	json.Unmarshal(recWrongPw.Body.Bytes(), &e2)
	if e1.Message != e2.Message {
		t.Error("error messages must not reveal which usernames exist")
	}
	if e1.Code == e2.Code {
		t.Error("error codes must stay distinguishable")
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	f := newFixture()
	f.users.failWith = errTimeout{}

	rec := doLogin(t, f, `{"username":"mom","password":"pw"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

type errTimeout struct{}

func (errTimeout) Error() string { return "i/o timeout" }
