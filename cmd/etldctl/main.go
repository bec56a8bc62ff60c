// Command etldctl resolves a host argument to its registrable domain against
// the Mozilla Public Suffix List.
//
// Usage:
//
//	etldctl [flags] <host>
//
// By default it fetches the current list from the official GitHub mirror.
// Use -snapshot to resolve against a previously saved JSON snapshot instead
// (see rules.RuleSet.ToSnapshot), or -list-url to fetch from a mirror.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/globalsign/etld/fetch"
	"github.com/globalsign/etld/host"
	"github.com/globalsign/etld/pslcache"
	"github.com/globalsign/etld/rules"
)

const (
	exitOK          = 0
	exitResolveFail = 1
	exitUsage       = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("etldctl", flag.ContinueOnError)
	policyFlag := fs.String("policy", "cookie", "match policy: cookie, icann, or private")
	listURLFlag := fs.String("list-url", "", "fetch the raw PSL text from this URL instead of the default GitHub mirror")
	snapshotFlag := fs.String("snapshot", "", "load a JSON rules.Snapshot from this file instead of fetching")
	configFlag := fs.String("config", "", "optional YAML config file; flags override its fields")
	cacheTTLFlag := fs.Duration("cache-ttl", 0, "TTL applied when caching a freshly fetched list (0 uses the cache's default)")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg := &Config{}
	if *configFlag != "" {
		loaded, err := LoadConfigFile(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "etldctl: loading config %s: %s\n", *configFlag, err.Error())
			return exitUsage
		}
		cfg = loaded
	}
	mergeFlagsIntoConfig(fs, cfg, *policyFlag, *listURLFlag, *snapshotFlag, *cacheTTLFlag)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: etldctl [flags] <host>")
		return exitUsage
	}
	hostArg := fs.Arg(0)

	policy, err := rules.ParsePolicy(cfg.Policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "etldctl: %s\n", err.Error())
		return exitUsage
	}

	rs, err := loadRuleSet(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "etldctl: %s\n", err.Error())
		return exitUsage
	}

	h, err := host.New(hostArg, true, 0, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "etldctl: invalid host %q: %s\n", hostArg, err.Error())
		return exitUsage
	}

	resolved, err := rs.Resolve(h, policy)
	if err != nil {
		if errors.Is(err, rules.ErrInvalidRules) {
			fmt.Fprintf(os.Stderr, "etldctl: %s\n", err.Error())
			return exitUsage
		}
		fmt.Fprintf(os.Stderr, "etldctl: cannot resolve %q: %s\n", hostArg, err.Error())
		return exitResolveFail
	}

	registrable, ok := resolved.Registrable()
	if !ok {
		fmt.Fprintf(os.Stderr, "etldctl: %q has no registrable domain under its suffix\n", hostArg)
		return exitResolveFail
	}

	fmt.Println(registrable.String())
	return exitOK
}

// mergeFlagsIntoConfig overlays explicitly-set flags onto cfg: a config file
// supplies defaults, an explicit flag (or an unset config field) wins.
func mergeFlagsIntoConfig(fs *flag.FlagSet, cfg *Config, policy, listURL, snapshot string, cacheTTL time.Duration) {
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if explicit["policy"] || cfg.Policy == "" {
		cfg.Policy = policy
	}
	if explicit["list-url"] || cfg.ListURL == "" {
		cfg.ListURL = listURL
	}
	if explicit["snapshot"] || cfg.SnapshotPath == "" {
		cfg.SnapshotPath = snapshot
	}
	if explicit["cache-ttl"] || cfg.CacheTTL.Duration == 0 {
		cfg.CacheTTL.Duration = cacheTTL
	}
}

// loadRuleSet resolves the rule set for this invocation: a local snapshot
// file if -snapshot/config names one, otherwise a fresh fetch, cached
// in-process for the lifetime of the call (a cache only pays off across a
// long-running caller, but exercising pslcache here keeps the one-shot CLI
// and a daemon-style caller on the same code path).
func loadRuleSet(cfg *Config) (*rules.RuleSet, error) {
	if cfg.SnapshotPath != "" {
		return loadSnapshotFile(cfg.SnapshotPath)
	}

	retriever := fetch.NewGitHubRetriever(nil)
	uri := cfg.ListURL
	if uri == "" {
		release, err := retriever.LatestRelease()
		if err != nil {
			return nil, err
		}
		uri = release
	}

	cache := pslcache.NewMemoryCache(5*time.Minute, 10*time.Minute)
	if snap, ok := cache.Fetch(uri); ok {
		log.Printf("etldctl: using cached rule set for %s", uri)
		return rules.FromSnapshot(snap)
	}

	var text string
	var err error
	if cfg.ListURL != "" {
		text, err = fetch.NewHTTPSource(nil).Get(cfg.ListURL)
	} else {
		text, err = retriever.List(uri)
	}
	if err != nil {
		return nil, err
	}

	rs, err := rules.FromText(text)
	if err != nil {
		return nil, err
	}
	cache.Store(uri, rs.ToSnapshot(), cfg.CacheTTL.Duration)
	return rs, nil
}

func loadSnapshotFile(path string) (*rules.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap rules.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: decoding snapshot %s: %s", rules.ErrInvalidRules, path, err.Error())
	}
	return rules.FromSnapshot(snap)
}
