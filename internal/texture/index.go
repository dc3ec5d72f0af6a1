package texture

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// rank orders formats when two files share a stem; formats with alpha win.
var rank = map[string]int{
	".jpg":  1,
	".jpeg": 1,
	".tga":  2,
	".webp": 3,
	".png":  4,
}

// Index maps lowercase file stems to image paths under an artwork directory.
type Index struct {
	entries map[string]string
}

// BuildIndex walks dir recursively for supported images. A missing
// directory yields an empty index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}
	filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		r, ok := rank[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())))
		if existing, exists := idx.entries[stem]; !exists || r > rank[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = p
		}
		return nil
	})
	return idx
}

// ResolvePath finds an image by artwork id or by the base name of a URL
// such as an artwork's low-resolution link.
func (idx *Index) ResolvePath(keys ...string) (string, bool) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		k = strings.ReplaceAll(k, "\\", "/")
		if i := strings.IndexAny(k, "?#"); i >= 0 {
			k = k[:i]
		}
		base := path.Base(k)
		stem := strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
		if p, ok := idx.entries[stem]; ok {
			return p, true
		}
	}
	return "", false
}

// Len returns the number of indexed images.
func (idx *Index) Len() int {
	return len(idx.entries)
}
