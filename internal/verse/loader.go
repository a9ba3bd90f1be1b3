package verse

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SeedLoader reads bundled seed verses used to bootstrap an empty store.
// Each file under the seed directory holds a flat list of verses, in JSON
// or YAML.
type SeedLoader struct{}

func NewSeedLoader() *SeedLoader { return &SeedLoader{} }

func (l *SeedLoader) Load(dir string) ([]Verse, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	verses := make([]Verse, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		var batch []Verse
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json":
			batch, err = readJSONSeed(path)
		case ".yaml", ".yml":
			batch, err = readYAMLSeed(path)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load seed %s: %w", path, err)
		}
		verses = append(verses, batch...)
	}

	for i := range verses {
		if verses[i].ID == "" {
			verses[i].ID = "verse-" + uuid.NewString()
		}
	}
	sort.SliceStable(verses, func(i, j int) bool { return verses[i].Seq < verses[j].Seq })
	return verses, nil
}

func readJSONSeed(path string) ([]Verse, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var verses []Verse
	if err := json.Unmarshal(b, &verses); err != nil {
		return nil, err
	}
	return verses, nil
}

func readYAMLSeed(path string) ([]Verse, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var verses []Verse
	if err := yaml.Unmarshal(b, &verses); err != nil {
		return nil, err
	}
	return verses, nil
}
