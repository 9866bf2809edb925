// Package roommates loads the household roommate directory, which maps the
// integer ids used by the ledger to display names.
package roommates

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Roommate is one entry of the directory.
type Roommate struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// DirectoryConfig represents the YAML file.
type DirectoryConfig struct {
	Roommates []Roommate `yaml:"roommates"`
}

// Directory maps roommate ids to names.
type Directory struct {
	roommates []Roommate
	byID      map[int]Roommate
}

// Load reads a directory from a YAML file.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roommate directory: %w", err)
	}
	return Parse(data)
}

// LoadOrEmpty is Load, except that a missing file yields an empty directory.
func LoadOrEmpty(path string) (*Directory, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(nil)
	}
	return Load(path)
}

// Parse parses YAML directory content.
func Parse(data []byte) (*Directory, error) {
	var config DirectoryConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return New(config.Roommates)
}

// New builds a directory. Ids must be non-negative and unique, names non-empty.
func New(list []Roommate) (*Directory, error) {
	d := &Directory{byID: make(map[int]Roommate)}
	for _, r := range list {
		r.Name = strings.TrimSpace(r.Name)
		if r.ID < 0 {
			return nil, fmt.Errorf("roommate %q has negative id %d", r.Name, r.ID)
		}
		if r.Name == "" {
			return nil, fmt.Errorf("roommate %d has no name", r.ID)
		}
		if _, dup := d.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate roommate id %d", r.ID)
		}
		d.byID[r.ID] = r
		d.roommates = append(d.roommates, r)
	}
	sort.SliceStable(d.roommates, func(i, j int) bool {
		return d.roommates[i].ID < d.roommates[j].ID
	})
	return d, nil
}

// Roommates returns every roommate ordered by id.
func (d *Directory) Roommates() []Roommate {
	out := make([]Roommate, len(d.roommates))
	copy(out, d.roommates)
	return out
}

// Lookup returns the roommate with id.
func (d *Directory) Lookup(id int) (Roommate, bool) {
	r, ok := d.byID[id]
	return r, ok
}

// Name returns the display name of id. Negative ids are the household itself;
// unknown ids fall back to "Roommate<id>".
func (d *Directory) Name(id int) string {
	if id < 0 {
		return "Household"
	}
	if r, ok := d.byID[id]; ok {
		return r.Name
	}
	return fmt.Sprintf("Roommate%d", id)
}

// Resolve turns a CLI argument into an id: either a number or a name
// (case-insensitive). "-" and "household" resolve to -1.
func (d *Directory) Resolve(arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "-" || strings.EqualFold(arg, "household") {
		return -1, nil
	}

	if id, err := strconv.Atoi(arg); err == nil {
		return id, nil
	}

	for _, r := range d.roommates {
		if strings.EqualFold(r.Name, arg) {
			return r.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown roommate %q", arg)
}
