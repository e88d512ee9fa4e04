package atlas

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// AssetsDigest fingerprints the spritesheets the manifest references:
// the absolute assets directory plus name, size and modification time of
// every chunk file, with absent files marked as such. Together with
// [Index.Digest] it identifies the pixels a render can produce.
//
// The digest is computed on first call and memoized, like the sheets in
// the image cache.
func (x *Index) AssetsDigest() string {
	x.assetsOnce.Do(func() {
		h := sha256.New()
		dir, err := filepath.Abs(x.assetsDir)
		if err != nil {
			dir = x.assetsDir
		}
		fmt.Fprintf(h, "dir %s\n", dir)

		seen := make(map[string]bool)
		for _, c := range x.manifest.Chunks {
			if !c.HasFile() || seen[c.File] {
				continue
			}
			seen[c.File] = true
			info, err := os.Stat(x.images.resolve(c.File))
			if err != nil || info.IsDir() {
				fmt.Fprintf(h, "file %s missing\n", c.File)
				continue
			}
			fmt.Fprintf(h, "file %s %d %d\n", c.File, info.Size(), info.ModTime().UnixNano())
		}
		x.assetsDigest = hex.EncodeToString(h.Sum(nil))
	})
	return x.assetsDigest
}

// Degraded reports whether the foreground sprite of any of ids comes from
// a sheet that was replaced by the placeholder. Sheets not loaded yet are
// loaded.
func (x *Index) Degraded(ids ...string) bool {
	for _, id := range ids {
		tile, ok := x.FindTile(id)
		if !ok || tile.FG == nil {
			continue
		}
		x.images.Image(tile.FG.File)
		if x.images.IsPlaceholder(tile.FG.File) {
			return true
		}
	}
	return false
}
