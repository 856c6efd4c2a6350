package pipeline

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// memoryProgress records progress messages in memory
type memoryProgress struct {
	messages []string
	failOn   string
}

func (m *memoryProgress) Log(message string) error {
	if m.failOn != "" && message == m.failOn {
		return errors.New("disk full")
	}
	m.messages = append(m.messages, message)
	return nil
}

func readFixture(t testing.TB) []byte {
	body, err := os.ReadFile(filepath.Join("testdata", "gdp_page.html"))
	if err != nil {
		t.Fatal(err)
	}
	return body
}

// fixtureServer serves the archived page fixture at any path
func fixtureServer(t testing.TB) *httptest.Server {
	body := readFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}
