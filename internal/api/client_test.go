package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ayoubkh/campuschat/internal/errors"
)

// staticToken satisfies TokenSource for tests
type staticToken string

func (s staticToken) GetToken() string { return string(s) }

func TestClient_LoginReturnsHeaderToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user/login" {
			t.Errorf("got %s %s, want POST /user/login", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding login body: %v", err)
		}
		if body["username"] != "sam" || body["password"] != "hunter2" {
			t.Errorf("login body = %v", body)
		}
		w.Header().Set("Authorization", "Bearer tok-123")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""))
	token, err := c.Login(context.Background(), "sam", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("got token %q, want tok-123", token)
	}
}

func TestClient_LoginWrongCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "wrong credentials"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""))
	_, err := c.Login(context.Background(), "sam", "nope")
	if err == nil {
		t.Fatal("Login with a 401 response should fail")
	}
	if errors.GetKind(err) != errors.KindAuth {
		t.Errorf("got kind %v, want KindAuth", errors.GetKind(err))
	}
}

func TestClient_LoginMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""))
	if _, err := c.Login(context.Background(), "sam", "hunter2"); err == nil {
		t.Fatal("a 200 without an Authorization header should be an error")
	}
}

func TestClient_CurrentUserSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want Bearer tok-123", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"user": User{UserID: 42, Username: "sam"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok-123"))
	user, err := c.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if user.UserID != 42 || user.Username != "sam" {
		t.Errorf("user = %+v", user)
	}
}

func TestClient_GroupsTreats404AsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "no group rooms found"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))
	groups, err := c.Groups(context.Background())
	if err != nil {
		t.Fatalf("a 404 roster should not be an error, got: %v", err)
	}
	if groups != nil {
		t.Errorf("got %v, want nil", groups)
	}
}

func TestClient_DMsTreats404AsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))
	dms, err := c.DMs(context.Background())
	if err != nil {
		t.Fatalf("a 404 roster should not be an error, got: %v", err)
	}
	if dms != nil {
		t.Errorf("got %v, want nil", dms)
	}
}

func TestClient_MessagesSendsOffset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/room/messages/5" {
			t.Errorf("path = %q, want /room/messages/5", r.URL.Path)
		}
		if got := r.URL.Query().Get("offset"); got != "2" {
			t.Errorf("offset = %q, want 2", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []Message{{RoomID: 5, SenderID: 7, Body: "hi", Type: MessageText}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))
	msgs, err := c.Messages(context.Background(), 5, 2)
	if err != nil {
		t.Fatalf("Messages returned error: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Body != "hi" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestClient_UploadSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/room/upload/5" {
			t.Errorf("path = %q, want /room/upload/5", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("reading file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "notes.pdf" {
			t.Errorf("filename = %q, want notes.pdf", header.Filename)
		}
		if got := r.FormValue("name"); got != "notes.pdf" {
			t.Errorf("name field = %q", got)
		}
		if got := r.FormValue("size"); got != "11" {
			t.Errorf("size field = %q, want 11", got)
		}
		json.NewEncoder(w).Encode(UploadResult{Link: "/files/notes.pdf", Name: "notes.pdf", Size: 11})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))
	result, err := c.Upload(context.Background(), 5, "notes.pdf", 11, strings.NewReader("lorem ipsum"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if result.Link != "/files/notes.pdf" || result.Size != 11 {
		t.Errorf("result = %+v", result)
	}
}

func TestClient_ServerMessageSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "room name already taken"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))
	_, err := c.Messages(context.Background(), 1, 0)
	if err == nil {
		t.Fatal("a 400 should be an error")
	}
	if !strings.Contains(err.Error(), "room name already taken") {
		t.Errorf("server message missing from error: %v", err)
	}
}
