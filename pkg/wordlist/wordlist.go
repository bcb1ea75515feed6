// Package wordlist provides the candidate paths for a scan. A Wordlist is a
// single shared cursor over its entries: concurrent workers call Next and
// every entry is handed out exactly once per pass.
package wordlist

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

// Wordlist holds scan candidates and the mutex-guarded cursor over them.
type Wordlist struct {
	mu      sync.Mutex
	entries []string
	index   int

	extensions []string
}

// New builds a Wordlist from in-memory entries. Duplicates are removed but
// order is otherwise preserved.
func New(entries []string) *Wordlist {
	entries = deduplicate(entries)
	return &Wordlist{
		entries:    entries,
		extensions: deriveExtensions(entries),
	}
}

// FromFile loads a wordlist file: one candidate per line, blank lines and
// #-comments skipped. Files ending in .gz are decompressed transparently.
func FromFile(path string) (*Wordlist, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wordlist: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	entries, err := readLines(reader)
	if err != nil {
		return nil, err
	}
	return New(entries), nil
}

// BuiltIn returns the bundled wordlist with the given name, for quick scans
// without an external file. Available: "common-dirs", "common-files".
func BuiltIn(name string) (*Wordlist, error) {
	words, ok := builtInLists[name]
	if !ok {
		return nil, fmt.Errorf("built-in wordlist %q not found", name)
	}
	return New(words), nil
}

// Size returns the number of candidates in one full pass.
func (w *Wordlist) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// Reset rewinds the cursor to the first candidate.
func (w *Wordlist) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.index = 0
}

// Next hands out the next candidate. The second return is false once the
// list is exhausted for this pass.
func (w *Wordlist) Next() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.index >= len(w.entries) {
		return "", false
	}
	entry := w.entries[w.index]
	w.index++
	return entry, true
}

// Extensions returns the distinct file extensions (without the leading dot)
// seen in the wordlist entries, sorted.
func (w *Wordlist) Extensions() []string {
	out := make([]string, len(w.extensions))
	copy(out, w.extensions)
	return out
}

// readLines reads candidates from a reader
func readLines(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			words = append(words, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading wordlist: %w", err)
	}

	return words, nil
}

func deduplicate(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	result := make([]string, 0, len(words))

	for _, word := range words {
		if _, ok := seen[word]; !ok {
			seen[word] = struct{}{}
			result = append(result, word)
		}
	}

	return result
}

// deriveExtensions extracts the file suffixes present in the entries so the
// engine can build one wildcard scanner per extension.
func deriveExtensions(entries []string) []string {
	seen := make(map[string]struct{})
	for _, entry := range entries {
		// Strip query/fragment so "x.php?a=1" still yields "php"
		entry, _, _ = strings.Cut(entry, "?")
		entry, _, _ = strings.Cut(entry, "#")
		if entry == "" || strings.HasSuffix(entry, "/") {
			continue
		}
		base := entry
		if i := strings.LastIndex(entry, "/"); i >= 0 {
			base = entry[i+1:]
		}
		dot := strings.LastIndex(base, ".")
		if dot <= 0 || dot == len(base)-1 {
			continue
		}
		ext := strings.ToLower(base[dot+1:])
		seen[ext] = struct{}{}
	}

	exts := make([]string, 0, len(seen))
	for ext := range seen {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// builtInLists are small bundled wordlists for quick scans.
var builtInLists = map[string][]string{
	"common-dirs": {
		"admin", "administrator", "api", "app", "assets", "auth", "backup",
		"bin", "blog", "cache", "cgi-bin", "config", "console", "content",
		"css", "dashboard", "data", "db", "debug", "dev", "docs", "download",
		"downloads", "files", "fonts", "help", "home", "images", "img", "inc",
		"include", "includes", "js", "lib", "libs", "log", "login", "logs",
		"mail", "media", "modules", "old", "panel", "php", "phpmyadmin",
		"plugins", "portal", "private", "public", "rest", "scripts", "secure",
		"server-status", "setup", "sql", "src", "static", "stats", "status",
		"storage", "store", "styles", "system", "temp", "templates", "test",
		"tests", "themes", "tmp", "tools", "upload", "uploads", "user", "users",
		"v1", "v2", "vendor", "web", "webmail", "wp-admin", "wp-content",
		"wp-includes", ".git", ".svn", ".env", ".htaccess", ".htpasswd",
	},
	"common-files": {
		".git/config", ".git/HEAD", ".gitignore", ".env", ".env.local",
		".env.production", ".htaccess", ".htpasswd", "robots.txt",
		"sitemap.xml", "crossdomain.xml", "security.txt",
		".well-known/security.txt", "humans.txt", "package.json",
		"composer.json", "Makefile", "Dockerfile", "docker-compose.yml",
		"webpack.config.js", "tsconfig.json", "phpinfo.php", "info.php",
		"test.php", "config.php", "settings.php", "wp-config.php",
		"database.yml", "config.yml", "config.json", "appsettings.json",
		"web.config", "server.xml", "readme.md", "README.md", "CHANGELOG.md",
		"LICENSE", "backup.sql", "dump.sql", "database.sql", ".DS_Store",
	},
}
