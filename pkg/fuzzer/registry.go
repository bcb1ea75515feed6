package fuzzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lanyi1998/dirsearch/pkg/requester"
	"github.com/lanyi1998/dirsearch/pkg/scanner"
)

// registry holds one Scanner per discriminator plus the unscoped default.
// It is built once in Start and read-only while workers run, so dispatch
// needs no locking.
type registry struct {
	calibration Scanner
	prefixes    map[string]Scanner
	suffixes    map[string]Scanner
	fallback    Scanner

	// sorted key copies for deterministic dispatch order
	prefixKeys []string
	suffixKeys []string
}

func (f *Fuzzer) buildRegistry() (*registry, error) {
	reg := &registry{
		prefixes: make(map[string]Scanner),
		suffixes: make(map[string]Scanner),
	}

	var err error
	reg.fallback, err = f.factory(f.cfg.Requester, scanner.Options{})
	if err != nil {
		return nil, fmt.Errorf("default scanner: %w", err)
	}

	// The "." prefix and "/" suffix scanners always exist: dotfiles and
	// directories routinely get special wildcard treatment.
	for _, prefix := range append([]string{"."}, f.cfg.Prefixes...) {
		if _, ok := reg.prefixes[prefix]; ok {
			continue
		}
		sc, err := f.factory(f.cfg.Requester, scanner.Options{Prefix: prefix})
		if err != nil {
			return nil, fmt.Errorf("prefix scanner %q: %w", prefix, err)
		}
		reg.prefixes[prefix] = sc
	}

	suffixes := append([]string{"/"}, f.cfg.Suffixes...)
	for _, ext := range f.cfg.Dictionary.Extensions() {
		suffixes = append(suffixes, "."+ext)
	}
	for _, suffix := range suffixes {
		if _, ok := reg.suffixes[suffix]; ok {
			continue
		}
		sc, err := f.factory(f.cfg.Requester, scanner.Options{Suffix: suffix})
		if err != nil {
			return nil, fmt.Errorf("suffix scanner %q: %w", suffix, err)
		}
		reg.suffixes[suffix] = sc
	}

	if f.cfg.ExcludeContent != "" {
		content := strings.TrimPrefix(f.cfg.ExcludeContent, "/")
		reg.calibration, err = f.factory(f.cfg.Requester, scanner.Options{Calibration: content})
		if err != nil {
			return nil, fmt.Errorf("calibration scanner: %w", err)
		}
	}

	reg.prefixKeys = sortedKeys(reg.prefixes)
	reg.suffixKeys = sortedKeys(reg.suffixes)
	return reg, nil
}

// scannersFor selects the scanners applicable to path: calibration first,
// then matching prefixes, then matching suffixes, then the default. The
// query string and fragment are stripped before matching. Each scanner
// instance appears at most once.
func (r *registry) scannersFor(path string) []Scanner {
	path, _, _ = strings.Cut(path, "?")
	path, _, _ = strings.Cut(path, "#")

	out := make([]Scanner, 0, 4)
	seen := make(map[Scanner]struct{}, 4)
	add := func(s Scanner) {
		if s == nil {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(r.calibration)
	for _, prefix := range r.prefixKeys {
		if strings.HasPrefix(path, prefix) {
			add(r.prefixes[prefix])
		}
	}
	for _, suffix := range r.suffixKeys {
		if strings.HasSuffix(path, suffix) {
			add(r.suffixes[suffix])
		}
	}
	add(r.fallback)
	return out
}

// classify folds the applicable scanners' verdicts with logical AND,
// stopping at the first rejection.
func (r *registry) classify(path string, resp *requester.Response) bool {
	for _, sc := range r.scannersFor(path) {
		if !sc.Scan(path, resp) {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]Scanner) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
