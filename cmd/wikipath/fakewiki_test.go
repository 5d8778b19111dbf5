package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

// fakeWiki serves just enough of the MediaWiki action API for the CLI:
// siteinfo, login, title search, and page links.
type fakeWiki struct {
	links map[string][]string
}

func (f *fakeWiki) titles() []string {
	seen := map[string]bool{}
	for title, targets := range f.links {
		seen[title] = true
		for _, t := range targets {
			seen[t] = true
		}
	}
	all := make([]string, 0, len(seen))
	for t := range seen {
		all = append(all, t)
	}
	sort.Strings(all)
	return all
}

func (f *fakeWiki) exists(title string) bool {
	for _, t := range f.titles() {
		if t == title {
			return true
		}
	}
	return false
}

func (f *fakeWiki) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	q := r.Form
	switch {
	case q.Get("meta") == "siteinfo":
		fmt.Fprint(w, `{"query":{"general":{"sitename":"Testwiki"}}}`)
	case q.Get("meta") == "tokens":
		fmt.Fprint(w, `{"query":{"tokens":{"logintoken":"t+\\"}}}`)
	case q.Get("action") == "login":
		fmt.Fprintf(w, `{"login":{"result":"Success","lgusername":%q}}`, q.Get("lgname"))
	case q.Get("list") == "search":
		term := strings.ToLower(q.Get("srsearch"))
		var hits []string
		for _, title := range f.titles() {
			if strings.Contains(strings.ToLower(title), term) && len(hits) < 5 {
				hits = append(hits, fmt.Sprintf(`{"ns":0,"title":%q}`, title))
			}
		}
		fmt.Fprintf(w, `{"query":{"search":[%s]}}`, strings.Join(hits, ","))
	case q.Get("prop") == "links":
		title := q.Get("titles")
		if !f.exists(title) {
			fmt.Fprintf(w, `{"query":{"pages":[{"ns":0,"title":%q,"missing":true}]}}`, title)
			return
		}
		items := make([]string, 0, len(f.links[title]))
		for _, l := range f.links[title] {
			items = append(items, fmt.Sprintf(`{"ns":0,"title":%q}`, l))
		}
		body := fmt.Sprintf(`{"query":{"pages":[{"ns":0,"title":%q,"links":[%s]}]}}`, title, strings.Join(items, ","))
		if !gjson.Valid(body) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, body)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func startFakeWiki(t *testing.T, links map[string][]string) string {
	t.Helper()
	srv := httptest.NewServer(&fakeWiki{links: links})
	t.Cleanup(srv.Close)
	return srv.URL + "/w/api.php"
}

// isolate keeps config files and WIKIPATH_* settings of the host out of a
// test and returns a secrets file for it.
func isolate(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "WIKIPATH_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	path := filepath.Join(t.TempDir(), "secrets.txt")
	if err := os.WriteFile(path, []byte("Bot@wikipath\nhunter2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
