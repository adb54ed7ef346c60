package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"proshop/internal/config"
	"proshop/internal/domain"
	apphttp "proshop/internal/http"
	"proshop/internal/http/handlers"
	"proshop/internal/repos"
)

func init() { domain.BcryptCost = bcrypt.MinCost }

type testEnv struct {
	app  *fiber.App
	deps *handlers.Deps
}

func newTestEnv(t *testing.T, env string) *testEnv {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	cfg := config.Config{
		Env:       env,
		DBDSN:     ":memory:",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		BodyLimit: 1 << 20,
	}
	app, deps := apphttp.NewApp(cfg, db)
	return &testEnv{app: app, deps: deps}
}

type result struct {
	status int
	body   []byte
	resp   *http.Response
}

func (r result) obj(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(r.body, &m); err != nil {
		t.Fatalf("body is not a JSON object: %s", r.body)
	}
	return m
}

func (r result) cookie(name string) *http.Cookie {
	for _, c := range r.resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) result {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	b, _ := io.ReadAll(resp.Body)
	return result{status: resp.StatusCode, body: b, resp: resp}
}

// register creates a user over HTTP and returns its id and session token.
func (e *testEnv) register(t *testing.T, name, email, pw string) (string, string) {
	t.Helper()
	r := e.do(t, "POST", "/api/users", fiber.Map{"name": name, "email": email, "password": pw}, "")
	if r.status != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, r.status, r.body)
	}
	ck := r.cookie("jwt")
	if ck == nil || ck.Value == "" {
		t.Fatal("register did not set jwt cookie")
	}
	return r.obj(t)["_id"].(string), ck.Value
}

func (e *testEnv) adminToken(t *testing.T) (string, string) {
	t.Helper()
	u, _, err := e.deps.UserService.EnsureAdmin("Admin", "admin@x.com", "adminpw")
	if err != nil {
		t.Fatal(err)
	}
	r := e.do(t, "POST", "/api/users/login", fiber.Map{"email": "admin@x.com", "password": "adminpw"}, "")
	if r.status != http.StatusOK {
		t.Fatalf("admin login: %d %s", r.status, r.body)
	}
	return u.ID, r.cookie("jwt").Value
}

func TestProfileReadAndUpdate(t *testing.T) {
	e := newTestEnv(t, config.EnvDevelopment)
	id, tok := e.register(t, "Alice", "a@x.com", "pw1")

	r := e.do(t, "GET", "/api/users/profile", nil, tok)
	if r.status != http.StatusOK || r.obj(t)["_id"] != id {
		t.Fatalf("profile: %d %s", r.status, r.body)
	}

	before, _ := e.deps.UserService.Get(id)

	// empty body: nothing changes, no rehash
	r = e.do(t, "PUT", "/api/users/profile", nil, tok)
	if r.status != http.StatusOK {
		t.Fatalf("empty update: %d %s", r.status, r.body)
	}
	if m := r.obj(t); m["name"] != "Alice" || m["email"] != "a@x.com" {
		t.Fatalf("empty update changed fields: %v", m)
	}
	after, _ := e.deps.UserService.Get(id)
	if after.Hash != before.Hash {
		t.Fatal("empty update rehashed the password")
	}

	r = e.do(t, "PUT", "/api/users/profile", fiber.Map{"name": "Alice Liddell", "password": "pw2"}, tok)
	if r.status != http.StatusOK || r.obj(t)["name"] != "Alice Liddell" || r.obj(t)["email"] != "a@x.com" {
		t.Fatalf("partial update: %d %s", r.status, r.body)
	}
	if e.do(t, "POST", "/api/users/login", fiber.Map{"email": "a@x.com", "password": "pw2"}, "").status != http.StatusOK {
		t.Fatal("new password should log in")
	}
	if e.do(t, "POST", "/api/users/login", fiber.Map{"email": "a@x.com", "password": "pw1"}, "").status != http.StatusUnauthorized {
		t.Fatal("old password should be rejected")
	}

	// isAdmin in a self update is ignored
	r = e.do(t, "PUT", "/api/users/profile", fiber.Map{"isAdmin": true}, tok)
	if r.status != http.StatusOK || r.obj(t)["isAdmin"] != false {
		t.Fatalf("owner must not grant themselves admin: %s", r.body)
	}
}

func TestProfileOfDeletedUser(t *testing.T) {
	e := newTestEnv(t, config.EnvDevelopment)
	id, tok := e.register(t, "Alice", "a@x.com", "pw1")
	if _, err := e.deps.UserService.Delete(id); err != nil {
		t.Fatal(err)
	}
	r := e.do(t, "GET", "/api/users/profile", nil, tok)
	if r.status != http.StatusUnauthorized {
		t.Fatalf("token of a deleted user should fail, got %d %s", r.status, r.body)
	}
}

func TestAdminListAndGet(t *testing.T) {
	e := newTestEnv(t, config.EnvDevelopment)
	_, adminTok := e.adminToken(t)
	id, _ := e.register(t, "Alice", "a@x.com", "pw1")

	r := e.do(t, "GET", "/api/users", nil, adminTok)
	if r.status != http.StatusOK {
		t.Fatalf("list: %d %s", r.status, r.body)
	}
	var list []map[string]any
	if err := json.Unmarshal(r.body, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[1]["_id"] != id {
		t.Fatalf("unexpected list %s", r.body)
	}
	if pw, _ := list[1]["password"].(string); !strings.HasPrefix(pw, "$2") {
		t.Fatalf("list returns full records including the hash, got %v", list[1]["password"])
	}

	r = e.do(t, "GET", "/api/users/"+id, nil, adminTok)
	if r.status != http.StatusOK {
		t.Fatalf("get: %d %s", r.status, r.body)
	}
	m := r.obj(t)
	if m["_id"] != id || m["email"] != "a@x.com" || m["createdAt"] == "" {
		t.Fatalf("unexpected detail %v", m)
	}
	if _, leaked := m["password"]; leaked {
		t.Fatal("get by id must exclude the hash")
	}

	r = e.do(t, "GET", "/api/users/not-an-id", nil, adminTok)
	if r.status != http.StatusNotFound || r.obj(t)["message"] != "Invalid ObjectId of: not-an-id" {
		t.Fatalf("expected 404 invalid id, got %d %s", r.status, r.body)
	}
	r = e.do(t, "GET", "/api/users/3f2504e0-4f89-11d3-9a0c-0305e82c3301", nil, adminTok)
	if r.status != http.StatusNotFound || r.obj(t)["message"] != "User not found" {
		t.Fatalf("expected 404 User not found, got %d %s", r.status, r.body)
	}
}

func TestAdminDelete(t *testing.T) {
	e := newTestEnv(t, config.EnvDevelopment)
	adminID, adminTok := e.adminToken(t)
	id, _ := e.register(t, "Alice", "a@x.com", "pw1")

	r := e.do(t, "DELETE", "/api/users/"+adminID, nil, adminTok)
	if r.status != http.StatusBadRequest || r.obj(t)["message"] != "Cannot delete admin user" {
		t.Fatalf("expected 400 on admin target, got %d %s", r.status, r.body)
	}
	if e.do(t, "GET", "/api/users/"+adminID, nil, adminTok).status != http.StatusOK {
		t.Fatal("admin record should remain after refused delete")
	}

	r = e.do(t, "DELETE", "/api/users/"+id, nil, adminTok)
	if r.status != http.StatusOK || r.obj(t)["message"] != "User deleted successfully" {
		t.Fatalf("delete: %d %s", r.status, r.body)
	}
	if r := e.do(t, "GET", "/api/users/"+id, nil, adminTok); r.status != http.StatusNotFound {
		t.Fatalf("get after delete should 404, got %d", r.status)
	}
	if r := e.do(t, "DELETE", "/api/users/"+id, nil, adminTok); r.status != http.StatusNotFound {
		t.Fatalf("delete of missing user should 404, got %d", r.status)
	}
}

func TestAdminUpdate(t *testing.T) {
	e := newTestEnv(t, config.EnvDevelopment)
	_, adminTok := e.adminToken(t)
	id, _ := e.register(t, "Alice", "a@x.com", "pw1")

	r := e.do(t, "PUT", "/api/users/"+id, fiber.Map{"isAdmin": true}, adminTok)
	if r.status != http.StatusOK || r.obj(t)["isAdmin"] != true || r.obj(t)["name"] != "Alice" {
		t.Fatalf("promote: %d %s", r.status, r.body)
	}

	r = e.do(t, "PUT", "/api/users/"+id, fiber.Map{"email": "alice@x.com"}, adminTok)
	if r.status != http.StatusOK {
		t.Fatalf("update: %d %s", r.status, r.body)
	}
	m := r.obj(t)
	if m["email"] != "alice@x.com" || m["name"] != "Alice" {
		t.Fatalf("merge failed: %v", m)
	}
	if m["isAdmin"] != false {
		t.Fatal("omitted isAdmin must clear the flag")
	}

	coerce := []struct {
		val  any
		want bool
	}{
		{1, true},
		{"yes", true},
		{"true", true},
		{0, false},
		{"", false},
		{nil, false},
		{false, false},
	}
	for _, tc := range coerce {
		r := e.do(t, "PUT", "/api/users/"+id, fiber.Map{"isAdmin": tc.val}, adminTok)
		if r.status != http.StatusOK {
			t.Fatalf("isAdmin=%v: %d %s", tc.val, r.status, r.body)
		}
		if r.obj(t)["isAdmin"] != tc.want {
			t.Fatalf("isAdmin=%v: got %v want %v", tc.val, r.obj(t)["isAdmin"], tc.want)
		}
	}

	r = e.do(t, "PUT", "/api/users/3f2504e0-4f89-11d3-9a0c-0305e82c3301", fiber.Map{"name": "x"}, adminTok)
	if r.status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing user, got %d", r.status)
	}
}

func TestRootAndNotFound(t *testing.T) {
	e := newTestEnv(t, config.EnvDevelopment)
	r := e.do(t, "GET", "/", nil, "")
	if r.status != http.StatusOK || string(r.body) != "API is running..." {
		t.Fatalf("root: %d %s", r.status, r.body)
	}
	r = e.do(t, "GET", "/api/nope", nil, "")
	if r.status != http.StatusNotFound || r.obj(t)["message"] != "Not Found - /api/nope" {
		t.Fatalf("not found: %d %s", r.status, r.body)
	}
}
