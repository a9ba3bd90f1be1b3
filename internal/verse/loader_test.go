package verse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSeedLoaderReadsJSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonSeed := `[{"id":"v2","seq":2,"title":"Second","body":"b"},{"seq":1,"title":"First","body":"a"}]`
	if err := os.WriteFile(filepath.Join(dir, "core.json"), []byte(jsonSeed), 0o644); err != nil {
		t.Fatal(err)
	}
	yamlSeed := "- id: v3\n  seq: 3\n  title: Third\n  body: c\n"
	if err := os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte(yamlSeed), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	verses, err := NewSeedLoader().Load(dir)
	if err != nil {
		t.Fatalf("load seeds: %v", err)
	}
	if len(verses) != 3 {
		t.Fatalf("expected 3 verses, got %d", len(verses))
	}
	if verses[0].Title != "First" || verses[2].Title != "Third" {
		t.Fatalf("expected sequence ordering, got %#v", verses)
	}
	if verses[0].ID == "" {
		t.Fatalf("missing id must be assigned")
	}
	if verses[1].ID != "v2" {
		t.Fatalf("existing id must be kept, got %q", verses[1].ID)
	}
}

func TestSeedLoaderBadFileFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSeedLoader().Load(dir); err == nil {
		t.Fatalf("expected error for malformed seed file")
	}
}
