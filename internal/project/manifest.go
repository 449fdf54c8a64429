package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/kingrea/dex/internal/finder"
)

// ErrManifestExists is returned by WriteManifest when a manifest is already
// present and overwriting was not requested.
var ErrManifestExists = errors.New("project: manifest already exists")

// Manifest is the decoded content of a .dexproject file. Empty fields were
// absent (or blank) in the file.
type Manifest struct {
	Name     string
	Language string
}

// ParseManifest decodes a manifest document. The document must be a JSON
// object; name and language are optional strings and null counts as absent.
func ParseManifest(data []byte) (Manifest, error) {
	if !gjson.ValidBytes(data) {
		return Manifest{}, errors.New("manifest is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Manifest{}, errors.New("manifest must be a JSON object")
	}
	name, err := optionalString(doc, "name")
	if err != nil {
		return Manifest{}, err
	}
	language, err := optionalString(doc, "language")
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{Name: name, Language: language}, nil
}

func optionalString(doc gjson.Result, field string) (string, error) {
	value := doc.Get(field)
	switch {
	case !value.Exists(), value.Type == gjson.Null:
		return "", nil
	case value.Type != gjson.String:
		return "", fmt.Errorf("field %q must be a string, got %s", field, value.Type)
	}
	return strings.TrimSpace(value.Str), nil
}

// ReadManifest loads and parses the manifest at path.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("project: read %s: %w", path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return Manifest{}, fmt.Errorf("project: %s: %w", path, err)
	}
	return m, nil
}

// ManifestPath returns where the manifest for dir lives.
func ManifestPath(dir string) string {
	return filepath.Join(dir, finder.ManifestName)
}

// WriteManifest stores m as dir's manifest. Keys of an existing manifest that
// dex does not know about are kept.
func WriteManifest(dir string, m Manifest, overwrite bool) error {
	path := ManifestPath(dir)
	base := []byte("{}")
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrManifestExists, path)
		}
		if gjson.ValidBytes(existing) && gjson.ParseBytes(existing).IsObject() {
			base = existing
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("project: read %s: %w", path, err)
	}

	out := base
	for _, field := range []struct {
		key   string
		value string
	}{
		{"name", strings.TrimSpace(m.Name)},
		{"language", strings.TrimSpace(m.Language)},
	} {
		if field.value == "" {
			if out, err = sjson.DeleteBytes(out, field.key); err != nil {
				return fmt.Errorf("project: encode manifest: %w", err)
			}
			continue
		}
		if out, err = sjson.SetBytes(out, field.key, field.value); err != nil {
			return fmt.Errorf("project: encode manifest: %w", err)
		}
	}
	if err := os.WriteFile(path, pretty.Pretty(out), 0o644); err != nil {
		return fmt.Errorf("project: write %s: %w", path, err)
	}
	return nil
}
