// Package i18n translates room labels and viewer strings from gettext .po
// catalogs.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leonelquinteros/gotext"
)

// Catalog looks up translations for one language. Keys without a
// translation are returned unchanged, so English source strings double as
// the fallback.
type Catalog struct {
	lang string
	po   *gotext.Po
}

// New returns an empty catalog.
func New(lang string) *Catalog {
	return &Catalog{lang: lang, po: gotext.NewPo()}
}

// Parse builds a catalog from .po file contents.
func Parse(lang string, data []byte) *Catalog {
	c := New(lang)
	c.po.Parse(data)
	return c
}

// Load reads <dir>/<lang>.po.
func Load(dir, lang string) (*Catalog, error) {
	path := filepath.Join(dir, lang+".po")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return Parse(lang, data), nil
}

// Language returns the catalog language.
func (c *Catalog) Language() string {
	if c == nil {
		return ""
	}
	return c.lang
}

// T translates key, formatting vars with fmt verbs when given.
// A nil catalog returns the key.
func (c *Catalog) T(key string, vars ...any) string {
	if c == nil {
		if len(vars) > 0 {
			return fmt.Sprintf(key, vars...)
		}
		return key
	}
	return c.po.Get(key, vars...)
}
