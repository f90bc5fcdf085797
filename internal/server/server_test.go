package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	return New(Config{Dir: dir, Port: 0}), dir
}

func TestHandleIndex_Empty(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No plots yet")
}

func TestHandleIndex_ListsFigures(t *testing.T) {
	s, dir := newTestServer(t)
	for _, name := range []string{"sample.read_lengths.png", "sample.qscores.svg", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "sample.read_lengths.png")
	assert.Contains(t, body, "sample.qscores.svg")
	// Non-figure files stay out of the gallery.
	assert.NotContains(t, body, "notes.txt")
}

func TestServeStaticFigure(t *testing.T) {
	s, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png-bytes"), 0644))

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plots/a.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestIsFigure(t *testing.T) {
	assert.True(t, isFigure("x.png"))
	assert.True(t, isFigure("x.SVG"))
	assert.False(t, isFigure("x.pdf")) // browsers don't inline these in <img>
	assert.False(t, isFigure("x.txt"))
}
