// Package config loads the flat, case-preserving, multi-file INI-style
// configuration sources GeoModelGrids models are described with.
package config

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/ini.v1"
)

// Config is a flat section -> key -> value map built from one or more
// config files, later files overriding earlier ones key by key.
type Config map[string]map[string]string

// Load reads and merges one or more INI-style config files, in order.
// Keys from later files override identically-named keys from earlier
// files; unrelated keys from both are kept.
func Load(filenames ...string) (Config, error) {
	cfg := Config{}

	for _, name := range filenames {
		if _, err := os.Stat(name); err != nil {
			return nil, fmt.Errorf("config: cannot read %q: %w", name, err)
		}

		f, err := ini.LoadSources(ini.LoadOptions{
			IgnoreInlineComment:       true,
			PreserveSurroundedQuote:   true,
			AllowNonUniqueSections:    false,
			UnescapeValueDoubleQuotes: true,
		}, name)
		if err != nil {
			return nil, fmt.Errorf("config: parsing %q: %w", name, err)
		}

		for _, section := range f.Sections() {
			name := section.Name()
			if name == ini.DefaultSection && len(section.Keys()) == 0 {
				continue
			}
			if cfg[name] == nil {
				cfg[name] = map[string]string{}
			}
			for _, key := range section.Keys() {
				cfg[name][key.Name()] = key.Value()
			}
		}
	}

	return cfg, nil
}

// Get returns the value at section/key, and whether it was present.
func (c Config) Get(section, key string) (string, bool) {
	s, ok := c[section]
	if !ok {
		return "", false
	}
	v, ok := s[key]
	return v, ok
}

// GetDefault returns the value at section/key, or fallback if absent.
func (c Config) GetDefault(section, key, fallback string) string {
	if v, ok := c.Get(section, key); ok {
		return v
	}
	return fallback
}

// WriteINI dumps the resolved configuration back out in INI form, sections
// and keys sorted for deterministic output, backing the --show-parameters
// CLI flag.
func (c Config) WriteINI(w io.Writer) error {
	sections := make([]string, 0, len(c))
	for s := range c {
		sections = append(sections, s)
	}
	sort.Strings(sections)

	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "[%s]\n", s); err != nil {
			return err
		}

		keys := make([]string, 0, len(c[s]))
		for k := range c[s] {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "%s = %s\n", k, c[s][k]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}
