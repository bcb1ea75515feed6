package wordlist

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeduplicates(t *testing.T) {
	w := New([]string{"admin", "login", "admin", "api", "login"})
	assert.Equal(t, 3, w.Size())

	got := drain(w)
	assert.Equal(t, []string{"admin", "login", "api"}, got)
}

func TestNextExhaustsAndReset(t *testing.T) {
	w := New([]string{"a", "b"})

	_, ok := w.Next()
	assert.True(t, ok)
	_, ok = w.Next()
	assert.True(t, ok)
	_, ok = w.Next()
	assert.False(t, ok)

	w.Reset()
	entry, ok := w.Next()
	assert.True(t, ok)
	assert.Equal(t, "a", entry)
}

func TestNextConcurrentExactlyOnce(t *testing.T) {
	entries := make([]string, 500)
	for i := range entries {
		entries[i] = "word" + string(rune('a'+i%26)) + string(rune('a'+(i/26)%26)) + string(rune('a'+i/676))
	}
	w := New(entries)
	size := w.Size()

	var mu sync.Mutex
	seen := make(map[string]int)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				entry, ok := w.Next()
				if !ok {
					return
				}
				mu.Lock()
				seen[entry]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, size)
	for entry, n := range seen {
		assert.Equal(t, 1, n, "entry %q handed out %d times", entry, n)
	}
}

func TestDeriveExtensions(t *testing.T) {
	w := New([]string{
		"index.php",
		"app.JS",
		"assets/main.css",
		"download.php?id=1",
		"readme",
		"docs/",
		".htaccess",
		"trailing.",
	})

	assert.Equal(t, []string{"css", "js", "php"}, w.Extensions())
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "admin\n\n# a comment\nlogin\n  api  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	w, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "login", "api"}, drain(w))
}

func TestFromFileGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt.gz")
	file, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(file)
	_, err = zw.Write([]byte("admin\nlogin\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, file.Close())

	w, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "login"}, drain(w))
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestBuiltIn(t *testing.T) {
	w, err := BuiltIn("common-dirs")
	require.NoError(t, err)
	assert.Greater(t, w.Size(), 50)

	w, err = BuiltIn("common-files")
	require.NoError(t, err)
	assert.Contains(t, w.Extensions(), "php")

	_, err = BuiltIn("no-such-list")
	assert.Error(t, err)
}

func drain(w *Wordlist) []string {
	var out []string
	for {
		entry, ok := w.Next()
		if !ok {
			return out
		}
		out = append(out, entry)
	}
}
