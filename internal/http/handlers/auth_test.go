package handlers

import (
	"net/http"
	"testing"
)

func TestRegisterAndObtainTokens(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, "POST", "/tasks/register", "", map[string]any{
		"username": "alice", "password": "s3cret",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: got %d, want 201: %s", w.Code, w.Body.String())
	}

	w = env.do(t, "POST", "/tasks/token", "", map[string]any{
		"username": "alice", "password": "s3cret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("token: got %d, want 200: %s", w.Code, w.Body.String())
	}

	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	decodeJSON(t, w, &pair)
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("expected access and refresh tokens, got %s", w.Body.String())
	}

	// the issued access token works against the protected surface
	w = env.do(t, "GET", "/tasks", pair.Access, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list with issued token: got %d, want 200", w.Code)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv()
	env.users.addUser(t, "bob", "pw")

	w := env.do(t, "POST", "/tasks/register", "", map[string]any{
		"username": "bob", "password": "other",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: got %d, want 409", w.Code)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv()

	for _, body := range []map[string]any{
		{"username": "", "password": "pw"},
		{"username": "carol", "password": ""},
		{},
	} {
		w := env.do(t, "POST", "/tasks/register", "", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("register %v: got %d, want 400", body, w.Code)
		}
	}
}

func TestTokenBadCredentials(t *testing.T) {
	env := newTestEnv()
	env.users.addUser(t, "dave", "right")

	// wrong password and unknown user answer identically
	for _, body := range []map[string]any{
		{"username": "dave", "password": "wrong"},
		{"username": "nobody", "password": "whatever"},
	} {
		w := env.do(t, "POST", "/tasks/token", "", body)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("token %v: got %d, want 401", body, w.Code)
		}
		var resp struct {
			Error string `json:"error"`
		}
		decodeJSON(t, w, &resp)
		if resp.Error != "invalid username or password" {
			t.Fatalf("token %v: error %q leaks which part failed", body, resp.Error)
		}
	}
}

func TestRefreshFlow(t *testing.T) {
	env := newTestEnv()
	id := env.users.addUser(t, "erin", "pw")

	pair, err := env.tokens.GeneratePair(id)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	w := env.do(t, "POST", "/tasks/token/refresh", "", map[string]any{"refresh": pair.Refresh})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: got %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Access string `json:"access"`
	}
	decodeJSON(t, w, &resp)
	if resp.Access == "" {
		t.Fatal("refresh returned no access token")
	}

	w = env.do(t, "GET", "/tasks", resp.Access, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list with refreshed token: got %d, want 200", w.Code)
	}
}

func TestRefreshRejectsAccessTokenAndGarbage(t *testing.T) {
	env := newTestEnv()
	id := env.users.addUser(t, "frank", "pw")

	pair, err := env.tokens.GeneratePair(id)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	for _, body := range []map[string]any{
		{"refresh": pair.Access},
		{"refresh": "garbage"},
	} {
		w := env.do(t, "POST", "/tasks/token/refresh", "", body)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("refresh %v: got %d, want 401", body, w.Code)
		}
	}

	w := env.do(t, "POST", "/tasks/token/refresh", "", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("refresh without token: got %d, want 400", w.Code)
	}
}
