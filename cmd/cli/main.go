// Command cli is the dirsearch command-line interface: it wires the
// wordlist, requester, and scan engine together and streams results to the
// terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lanyi1998/dirsearch/pkg/config"
	"github.com/lanyi1998/dirsearch/pkg/defaults"
	"github.com/lanyi1998/dirsearch/pkg/fuzzer"
	"github.com/lanyi1998/dirsearch/pkg/httpclient"
	"github.com/lanyi1998/dirsearch/pkg/metrics"
	"github.com/lanyi1998/dirsearch/pkg/report"
	"github.com/lanyi1998/dirsearch/pkg/requester"
	"github.com/lanyi1998/dirsearch/pkg/ui"
	"github.com/lanyi1998/dirsearch/pkg/wordlist"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dirsearch:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.NoColor || !ui.StdoutIsTerminal() {
		ui.NoColor()
	}

	words, err := loadWordlist(cfg)
	if err != nil {
		return err
	}
	if words.Size() == 0 {
		return fmt.Errorf("wordlist is empty")
	}

	client := httpclient.New(httpclient.Config{
		Timeout:            cfg.Timeout.Std(),
		Proxy:              cfg.Proxy,
		InsecureSkipVerify: true,
		MaxConnsPerHost:    cfg.Threads,
	})
	req, err := requester.New(cfg.TargetURL,
		requester.WithClient(client),
		requester.WithHeaders(parseHeaders(cfg.Headers)))
	if err != nil {
		return err
	}

	printer := ui.NewPrinter(os.Stdout)
	recorder := metrics.NewRecorder()
	if cfg.MetricsAddr != "" {
		if err := recorder.Serve(cfg.MetricsAddr); err != nil {
			return err
		}
		defer recorder.Close()
	}

	var requested, found, errors atomic.Int64
	total := words.Size()

	engine, err := fuzzer.New(fuzzer.Config{
		Requester:      req,
		Dictionary:     words,
		Prefixes:       cfg.Prefixes,
		Suffixes:       cfg.Suffixes,
		ExcludeContent: cfg.ExcludeContent,
		Threads:        cfg.Threads,
		Delay:          cfg.Delay.Std(),
		MaxRate:        cfg.MaxRate,
		Recorder:       recorder,
		// Every attempt lands in exactly one of the three callbacks, so
		// they double as the completion counter for the progress line.
		MatchCallbacks: []fuzzer.MatchFunc{func(r *fuzzer.Result) {
			requested.Add(1)
			found.Add(1)
			printer.Match(r)
			printer.Progress(int(requested.Load()), total, int(found.Load()))
		}},
		NotFoundCallbacks: []fuzzer.NotFoundFunc{func(r *fuzzer.Result) {
			requested.Add(1)
			printer.Progress(int(requested.Load()), total, int(found.Load()))
		}},
		ErrorCallbacks: []fuzzer.ErrorFunc{func(path, message string) {
			requested.Add(1)
			errors.Add(1)
			if !cfg.Quiet {
				printer.Error(path, message)
			}
			printer.Progress(int(requested.Load()), total, int(found.Load()))
		}},
	})
	if err != nil {
		return err
	}

	printer.Banner(cfg.TargetURL, total, engine.Threads())

	started := time.Now()
	if err := engine.Start(); err != nil {
		return err
	}

	// First interrupt stops the scan cleanly, a second one aborts.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		printer.Error("scan", "interrupt received, stopping")
		engine.Stop()
		<-sigCh
		os.Exit(130)
	}()

	engine.Wait(0)

	matches := engine.Matches()
	requestedCount := int(requested.Load())
	printer.Summary(len(matches), requestedCount, int(errors.Load()), time.Since(started))

	if cfg.ReportFile != "" {
		rep := report.New(cfg.TargetURL, started, requestedCount, int(errors.Load()), matches)
		if err := rep.Save(cfg.ReportFile); err != nil {
			return err
		}
		fmt.Printf("report written to %s\n", cfg.ReportFile)
	}
	return nil
}

// parseFlags overlays command-line flags on an optional YAML profile.
func parseFlags(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("dirsearch", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "dirsearch %s - web content discovery\n\nusage: dirsearch -u URL [options]\n\n", defaults.Version)
		fs.PrintDefaults()
	}

	fs.String("profile", "", "YAML scan profile to load before applying flags")

	// Peek at -profile first so explicit flags override profile values
	cfg := config.Default()
	for i, arg := range args {
		if (arg == "-profile" || arg == "--profile") && i+1 < len(args) {
			loaded, err := config.LoadProfile(args[i+1])
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	var exts, prefixes, suffixes, headers string
	fs.StringVar(&cfg.TargetURL, "u", cfg.TargetURL, "target base URL (required)")
	fs.StringVar(&cfg.Wordlist, "w", cfg.Wordlist, "wordlist file, or builtin:common-dirs / builtin:common-files")
	fs.StringVar(&exts, "e", strings.Join(cfg.Extensions, ","), "comma-separated extensions to append to each word")
	fs.StringVar(&prefixes, "prefixes", strings.Join(cfg.Prefixes, ","), "comma-separated path prefixes to calibrate wildcard scanners for")
	fs.StringVar(&suffixes, "suffixes", strings.Join(cfg.Suffixes, ","), "comma-separated path suffixes to calibrate wildcard scanners for")
	fs.StringVar(&cfg.ExcludeContent, "exclude-content", cfg.ExcludeContent, "known-nonexistent path used to calibrate an extra wildcard scanner")
	fs.IntVar(&cfg.Threads, "t", cfg.Threads, "worker threads (clamped to wordlist size)")
	fs.Var(&cfg.Delay, "delay", "delay between requests per worker (e.g. 500ms)")
	fs.IntVar(&cfg.MaxRate, "max-rate", cfg.MaxRate, "max probe starts per second, 0 = unlimited")
	fs.Var(&cfg.Timeout, "timeout", "per-request timeout")
	fs.StringVar(&cfg.Proxy, "proxy", cfg.Proxy, "HTTP/HTTPS proxy URL")
	fs.StringVar(&headers, "H", strings.Join(cfg.Headers, ","), "extra headers, comma-separated name:value pairs")
	fs.StringVar(&cfg.ReportFile, "o", cfg.ReportFile, "write a JSON (.json) or YAML (.yaml) report here")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "serve Prometheus metrics on this address (e.g. :9090)")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "suppress per-request error lines")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Extensions = splitList(exts)
	cfg.Prefixes = splitList(prefixes)
	cfg.Suffixes = splitList(suffixes)
	cfg.Headers = splitList(headers)
	return cfg, nil
}

// loadWordlist resolves the wordlist source and applies extension expansion.
func loadWordlist(cfg *config.Config) (*wordlist.Wordlist, error) {
	var (
		words *wordlist.Wordlist
		err   error
	)
	if name, ok := strings.CutPrefix(cfg.Wordlist, "builtin:"); ok {
		words, err = wordlist.BuiltIn(name)
	} else {
		words, err = wordlist.FromFile(cfg.Wordlist)
	}
	if err != nil {
		return nil, err
	}
	if len(cfg.Extensions) == 0 {
		return words, nil
	}

	// ffuf-style expansion: keep the original word and add word.ext variants
	var expanded []string
	for {
		word, ok := words.Next()
		if !ok {
			break
		}
		expanded = append(expanded, word)
		if strings.HasSuffix(word, "/") {
			continue
		}
		for _, ext := range cfg.Extensions {
			expanded = append(expanded, word+"."+strings.TrimPrefix(ext, "."))
		}
	}
	return wordlist.New(expanded), nil
}

func parseHeaders(pairs []string) map[string]string {
	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
