package quickstatements

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTextURL(t *testing.T) {
	got := TextURL(DefaultBaseURL, "CREATE\nLAST|Len|\"Ada Lovelace\"\tx")
	want := "https://quickstatements.toolforge.org/#/v1=CREATE%7C%7CLAST%7CLen%7C%22Ada%20Lovelace%22%7Cx"
	if got != want {
		t.Errorf("TextURL:\n got %s\nwant %s", got, want)
	}
}

func TestURL(t *testing.T) {
	l, _ := NewEntityLine(Last, "P31", "Q5")
	got := URL([]Line{CreateLine{}, l})
	if !strings.HasSuffix(got, "/#/v1=CREATE%7C%7CLAST%7CP31%7CQ5") {
		t.Errorf("URL = %s", got)
	}
}

func TestClientPost(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api.php" || r.Method != http.MethodPost {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		fmt.Fprint(w, `{"status":"OK","batch_id":4242}`)
	}))
	defer srv.Close()

	c := NewClient("Alice", "secret")
	c.BaseURL = srv.URL
	l, _ := NewEntityLine(Last, "P31", "Q5")

	batch, err := c.Post(context.Background(), []Line{CreateLine{}, l}, "orcid import")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if batch.ID != 4242 {
		t.Errorf("ID = %d, want 4242", batch.ID)
	}
	if batch.URL != srv.URL+"/#/batch/4242" {
		t.Errorf("URL = %s", batch.URL)
	}
	if form["data"] != "CREATE\nLAST|P31|Q5" {
		t.Errorf("data = %q", form["data"])
	}
	if form["batchname"] != "orcid import" || form["username"] != "Alice" || form["format"] != "v1" {
		t.Errorf("unexpected form: %v", form)
	}
}

func TestClientPostRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"Token mismatch"}`)
	}))
	defer srv.Close()

	c := NewClient("Alice", "wrong")
	c.BaseURL = srv.URL
	if _, err := c.Post(context.Background(), []Line{CreateLine{}}, ""); err == nil {
		t.Fatal("expected error for rejected batch")
	}
}

func TestClientPostNoCredentials(t *testing.T) {
	c := NewClient("", "")
	_, err := c.Post(context.Background(), []Line{CreateLine{}}, "")
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}
