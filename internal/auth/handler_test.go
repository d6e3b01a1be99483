package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

type fakeUserStore struct {
	mu      sync.Mutex
	byEmail map[string]*User
	byID    map[string]*User
	nextID  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*User),
		byID:    make(map[string]*User),
	}
}

func (s *fakeUserStore) Create(ctx context.Context, u User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return nil, ErrEmailTaken
	}
	s.nextID++
	u.ID = fmt.Sprintf("user-%d", s.nextID)
	u.CreatedAt = time.Now().UTC()
	stored := u
	s.byEmail[u.Email] = &stored
	s.byID[u.ID] = &stored
	return &u, nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func newAuthTestApp(store UserStore) (*fiber.App, *Issuer) {
	issuer := NewIssuer("test-secret", time.Hour)
	handler := NewHandler(store, issuer, 4)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}
			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Post("/api/auth/register", handler.Register)
	app.Post("/api/auth/login", handler.Login)
	app.Get("/api/auth/me", RequireAuth(issuer), handler.Me)
	return app, issuer
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := newAuthTestApp(newFakeUserStore())

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "A", "email": "a@b.com", "password": "secret", "role": "student",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, `"token"`) {
		t.Fatalf("register response missing token: %s", body)
	}

	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "a@b.com", "password": "secret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, _ := newAuthTestApp(newFakeUserStore())

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "A", "email": "a@b.com", "password": "secret", "role": "student",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register status = %d", resp.StatusCode)
	}
	readBody(t, resp)

	// Same address with different case and surrounding whitespace.
	resp = postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "B", "email": "  A@B.com ", "password": "secret2", "role": "recruiter",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register status = %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Email already exists") {
		t.Fatalf("unexpected duplicate response: %s", body)
	}
}

func TestRegisterNeverExposesPassword(t *testing.T) {
	app, _ := newAuthTestApp(newFakeUserStore())

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "A", "email": "a@b.com", "password": "secret", "role": "student",
	})
	body := readBody(t, resp)
	if strings.Contains(strings.ToLower(body), "password") || strings.Contains(body, "secret") {
		t.Fatalf("register response leaks password material: %s", body)
	}

	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "a@b.com", "password": "secret",
	})
	body = readBody(t, resp)
	if strings.Contains(strings.ToLower(body), "password") || strings.Contains(body, "secret") {
		t.Fatalf("login response leaks password material: %s", body)
	}
}

func TestRegisterValidation(t *testing.T) {
	app, _ := newAuthTestApp(newFakeUserStore())

	cases := []map[string]string{
		{"name": "", "email": "a@b.com", "password": "secret", "role": "student"},
		{"name": "A", "email": "", "password": "secret", "role": "student"},
		{"name": "A", "email": "a@b.com", "password": "short", "role": "student"},
		{"name": "A", "email": "a@b.com", "password": "secret", "role": "admin"},
	}
	for i, c := range cases {
		resp := postJSON(t, app, "/api/auth/register", c)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("case %d: status = %d, want 400", i, resp.StatusCode)
		}
		readBody(t, resp)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	app, _ := newAuthTestApp(newFakeUserStore())

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "A", "email": "a@b.com", "password": "secret", "role": "student",
	})
	readBody(t, resp)

	wrongPassword := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "a@b.com", "password": "nope12",
	})
	unknownEmail := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "nobody@b.com", "password": "secret",
	})

	if wrongPassword.StatusCode != http.StatusUnauthorized || unknownEmail.StatusCode != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d, want 401 for both", wrongPassword.StatusCode, unknownEmail.StatusCode)
	}
	if a, b := readBody(t, wrongPassword), readBody(t, unknownEmail); a != b {
		t.Fatalf("failure responses differ: %q vs %q", a, b)
	}
}

func TestLoginTrimsCredentials(t *testing.T) {
	app, _ := newAuthTestApp(newFakeUserStore())

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "A", "email": "a@b.com", "password": "secret", "role": "student",
	})
	readBody(t, resp)

	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"email": " a@b.com ", "password": " secret ",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login with padded credentials status = %d", resp.StatusCode)
	}
}

func TestMe(t *testing.T) {
	store := newFakeUserStore()
	app, issuer := newAuthTestApp(store)

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "A", "email": "a@b.com", "password": "secret", "role": "student",
	})
	var created struct {
		User User `json:"user"`
	}
	if err := json.Unmarshal([]byte(readBody(t, resp)), &created); err != nil {
		t.Fatalf("decode register: %v", err)
	}

	token, err := issuer.Generate(created.User.ID, created.User.Role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := app.Test(req)
	if err != nil {
		t.Fatalf("me request: %v", err)
	}
	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", meResp.StatusCode)
	}
	if body := readBody(t, meResp); !strings.Contains(body, "a@b.com") {
		t.Fatalf("me response missing user: %s", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	noAuth, err := app.Test(req)
	if err != nil {
		t.Fatalf("me request: %v", err)
	}
	if noAuth.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me without token status = %d", noAuth.StatusCode)
	}
	readBody(t, noAuth)
}
