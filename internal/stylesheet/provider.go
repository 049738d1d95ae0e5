package stylesheet

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/themer/internal/registry"
	"github.com/roach88/themer/internal/theme"
)

// Provider loads the styles a stylesheet defines for one theme.
// (nil, nil) means the sheet or theme is absent.
type Provider interface {
	Load(t theme.Theme, key registry.SheetKey) (*registry.Collection, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(t theme.Theme, key registry.SheetKey) (*registry.Collection, error)

// Load calls f.
func (f ProviderFunc) Load(t theme.Theme, key registry.SheetKey) (*registry.Collection, error) {
	return f(t, key)
}

// Option configures a DirProvider.
type Option func(*DirProvider)

// WithLogger sets the provider's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *DirProvider) {
		p.logger = logger
	}
}

// DirProvider serves stylesheets from a directory tree.
//
// Decoded sheets are memoised by key, including misses. Like the engine,
// a DirProvider is confined to one goroutine.
type DirProvider struct {
	root   string
	logger *slog.Logger
	sheets map[registry.SheetKey]*Sheet
}

// NewDirProvider creates a provider rooted at root.
func NewDirProvider(root string, opts ...Option) *DirProvider {
	p := &DirProvider{
		root:   root,
		logger: slog.Default(),
		sheets: make(map[registry.SheetKey]*Sheet),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Root returns the directory the provider reads from.
func (p *DirProvider) Root() string {
	return p.root
}

// Load returns a fresh copy of the styles the sheet for key defines for t.
func (p *DirProvider) Load(t theme.Theme, key registry.SheetKey) (*registry.Collection, error) {
	sheet, err := p.Sheet(key)
	if err != nil || sheet == nil {
		return nil, err
	}
	c := sheet.Collection(t)
	if c == nil {
		p.logger.Debug("stylesheet has no styles for theme",
			"sheet", key.String(),
			"theme", t.Name())
		return nil, nil
	}
	return c.Clone(), nil
}

// Sheet returns the decoded sheet for key, or nil if no file exists.
func (p *DirProvider) Sheet(key registry.SheetKey) (*Sheet, error) {
	if sheet, ok := p.sheets[key]; ok {
		return sheet, nil
	}

	path, err := p.find(key)
	if err != nil {
		return nil, err
	}
	if path == "" {
		p.logger.Debug("stylesheet not found",
			"sheet", key.String(),
			"root", p.root)
		p.sheets[key] = nil
		return nil, nil
	}

	sheet, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("stylesheet loaded",
		"sheet", key.String(),
		"path", path,
		"themes", len(sheet.themes))
	p.sheets[key] = sheet
	return sheet, nil
}

func (p *DirProvider) find(key registry.SheetKey) (string, error) {
	if key.Name == "" {
		return "", nil
	}
	dir := filepath.Join(p.root, filepath.FromSlash(key.Bundle))
	for _, ext := range Extensions {
		path := filepath.Join(dir, key.Name+ext)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if !info.IsDir() {
			return path, nil
		}
	}
	return "", nil
}
