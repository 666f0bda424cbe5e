// Package query holds the catalog of named, saved SQL queries that
// ashquery can run by name. A handful of built-ins ship with the tool;
// system and per-user YAML files add to or override them. Saved SQL may
// reference environment variables (${PWD} and friends), expanded at
// execution time.
package query

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Query is one saved query.
type Query struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	SQL         string `yaml:"sql"`
}

// file is the on-disk YAML layout.
type file struct {
	Queries []Query `yaml:"queries"`
}

// Catalog maps query names to saved queries. Later additions override
// earlier ones, so user files shadow built-ins.
type Catalog struct {
	byName map[string]Query
}

// NewCatalog returns a catalog seeded with the built-in queries.
func NewCatalog() *Catalog {
	c := &Catalog{byName: make(map[string]Query)}
	for _, q := range builtins {
		c.Add(q)
	}
	return c
}

// Add inserts or replaces a saved query.
func (c *Catalog) Add(q Query) {
	c.byName[q.Name] = q
}

// Get returns the named query.
func (c *Catalog) Get(name string) (Query, bool) {
	q, ok := c.byName[name]
	return q, ok
}

// Names returns all query names, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.byName))
	for name := range c.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Descriptions maps each query name to its description.
func (c *Catalog) Descriptions() map[string]string {
	out := make(map[string]string, len(c.byName))
	for name, q := range c.byName {
		out[name] = q.Description
	}
	return out
}

// LoadFile merges the queries from a YAML file into the catalog.
func (c *Catalog) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read queries file: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse queries file %s: %w", path, err)
	}
	for _, q := range f.Queries {
		if q.Name == "" {
			return fmt.Errorf("queries file %s: query with empty name", path)
		}
		c.Add(q)
	}
	return nil
}

// LoadDefaultFiles merges the system and per-user query files, in that
// order so user definitions win. Missing files are skipped silently;
// malformed ones are reported.
func (c *Catalog) LoadDefaultFiles() []error {
	paths := []string{"/etc/ash/queries.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".ash", "queries.yaml"))
	}

	var errs []error
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := c.LoadFile(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Expand substitutes environment variables referenced in saved SQL.
func Expand(sql string) string {
	return os.ExpandEnv(sql)
}

var builtins = []Query{
	{
		Name:        "CWD",
		Description: "Show commands executed within the current directory.",
		SQL: `SELECT datetime(start_time, 'unixepoch', 'localtime') AS when_run,
       duration, rval, command
FROM commands
WHERE cwd = '${PWD}'
ORDER BY start_time`,
	},
	{
		Name:        "RCNT",
		Description: "Show the most recently executed commands.",
		SQL: `SELECT datetime(start_time, 'unixepoch', 'localtime') AS when_run,
       cwd, rval, command
FROM commands
ORDER BY start_time DESC`,
	},
	{
		Name:        "ME",
		Description: "Show commands executed by the current user.",
		SQL: `SELECT datetime(c.start_time, 'unixepoch', 'localtime') AS when_run,
       c.cwd, c.command
FROM commands c JOIN sessions s ON c.session_id = s.id
WHERE s.logname = '${LOGNAME}'
ORDER BY c.start_time`,
	},
	{
		Name:        "SESSIONS",
		Description: "Show shell sessions, most recent first.",
		SQL: `SELECT id, hostname, tty, logname, shell,
       datetime(start_time, 'unixepoch', 'localtime') AS started,
       duration
FROM sessions
ORDER BY start_time DESC`,
	},
}
