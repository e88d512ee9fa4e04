package atlas

import (
	"os"
	"path/filepath"
	"strings"

	apperr "github.com/matzehuels/dontpanic/pkg/errors"
)

// ManifestCandidates lists the locations searched by FindManifest,
// relative to the tileset root, in priority order.
var ManifestCandidates = []string{
	filepath.Join("tileset", "tile_config.json"),
	filepath.Join("tileset", "tileset.json"),
	"tile_config.json",
	"tileset.json",
}

// FindManifest locates the manifest for a tileset root. A root that is
// itself a JSON file is returned unchanged.
//
// Returns an error with code CONFIGURATION_ERROR when no candidate exists.
func FindManifest(root string) (string, error) {
	if info, err := os.Stat(root); err == nil && !info.IsDir() && strings.EqualFold(filepath.Ext(root), ".json") {
		return root, nil
	}
	for _, candidate := range ManifestCandidates {
		path := filepath.Join(root, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", apperr.New(apperr.ErrCodeConfiguration,
		"no tileset manifest found in %s (looked for %s)", root, strings.Join(ManifestCandidates, ", "))
}

// Open finds the manifest under root and loads it, using the manifest's
// directory as the asset directory.
func Open(root string, opts ...Option) (*Index, error) {
	path, err := FindManifest(root)
	if err != nil {
		return nil, err
	}
	return Load(path, filepath.Dir(path), opts...)
}
