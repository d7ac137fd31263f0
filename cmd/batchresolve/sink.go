package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// fileSink implements task.ResolvedSink against one output path. Several logical --in/--query
// entries that name the same --out path share one fileSink instance (see the sinks map in
// mainExecute),
// which is how spec.md §6 scenario E6 - multiple batches merging into one output file - is
// realized: the sink's dedup set is the union point, not the controller.
type fileSink struct {
	path string

	mu      sync.Mutex
	results map[string]struct{} // deduped, formatted output lines
}

func newFileSink(path string) *fileSink {
	return &fileSink{path: path, results: map[string]struct{}{}}
}

// Resolved implements task.ResolvedSink. PTR lookups return FQDN-form strings (trailing dot,
// matching dns.Msg convention); that's a core/wire concern, not an output one, so the dot is
// stripped here at the formatting boundary.
func (s *fileSink) Resolved(_ string, values []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range values {
		s.results[strings.TrimSuffix(v, ".")] = struct{}{}
	}
}

// flush writes every deduped, sorted result line to s.path, truncating any previous content.
func (s *fileSink) flush() error {
	s.mu.Lock()
	lines := make([]string, 0, len(s.results))
	for line := range s.results {
		lines = append(lines, line)
	}
	s.mu.Unlock()

	sort.Strings(lines)

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("batchresolve: creating %s: %w", s.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("batchresolve: writing %s: %w", s.path, err)
		}
	}

	return w.Flush()
}

// readInputs reads one newline-delimited, UTF-8 input file, trims whitespace, skips blank lines
// and dedupes into a stable, sorted slice so identical lines within the file don't issue duplicate
// queries. Inputs repeated across different files are not deduped.
func readInputs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("batchresolve: reading %s: %w", path, err)
	}
	defer f.Close()

	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		seen[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("batchresolve: reading %s: %w", path, err)
	}

	inputs := make([]string, 0, len(seen))
	for line := range seen {
		inputs = append(inputs, line)
	}
	sort.Strings(inputs)

	return inputs, nil
}
