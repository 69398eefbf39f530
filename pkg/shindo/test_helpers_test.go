package shindo

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

// fakeService mimics the JMA endpoints: static tables under /js/ and the
// search API under /api/api.php.
type fakeService struct {
	*httptest.Server

	tables  map[string][]byte
	answers map[string][]byte // by form "mode"

	mu    sync.Mutex
	forms []url.Values

	tableHits atomic.Int32
	apiHits   atomic.Int32
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	f := &fakeService{
		tables: map[string][]byte{
			"/js/city.json":    fixture(t, "city.json"),
			"/js/station.json": fixture(t, "station.json"),
			"/js/epi.json":     fixture(t, "epi.json"),
		},
		answers: map[string][]byte{
			"event": fixture(t, "event.json"),
		},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeService) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/api/api.php" {
		f.apiHits.Add(1)
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.forms = append(f.forms, r.PostForm)
		f.mu.Unlock()

		key := r.PostForm.Get("mode")
		if key == "search" && r.PostForm.Get("seisCount") == "true" {
			key = "stats"
		}
		f.mu.Lock()
		body, ok := f.answers[key]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(body)
		return
	}
	f.tableHits.Add(1)
	body, ok := f.tables[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_, _ = w.Write(body)
}

// answer sets the body returned for an API mode ("search", "stats", "event").
func (f *fakeService) answer(mode string, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers[mode] = body
}

func (f *fakeService) lastForm() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.forms) == 0 {
		return nil
	}
	return f.forms[len(f.forms)-1]
}

// rfc formats t for comparisons that ignore the *time.Location pointer.
func rfc(t time.Time) string { return t.Format(time.RFC3339Nano) }
