package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/menube/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.MenuLoader for menu documents on disk.
//
// Supported formats are JSON, YAML and TOML, chosen by file extension. The
// document is either a list of items or an object with a "menu" list. Items
// may pull their children from another file with "menuFile", resolved
// relative to the including file.
type Loader struct {
	path   string
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets the logger used to report unknown item keys.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader for the menu document at path.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{path: path}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	return l
}

// Path returns the location of the root menu document.
func (l *Loader) Path() string {
	return l.path
}

// Load reads the menu document and every file it includes.
func (l *Loader) Load(ctx context.Context) ([]*domain.Node, error) {
	return l.loadFile(ctx, l.path, nil)
}

// itemDTO is one menu item as written in a menu document.
type itemDTO struct {
	Label        string    `mapstructure:"label"`
	Menu         []itemDTO `mapstructure:"menu"`
	MenuFile     string    `mapstructure:"menuFile"`
	Command      string    `mapstructure:"command"`
	Emit         any       `mapstructure:"emit"`
	Options      string    `mapstructure:"options"`
	SelectScript string    `mapstructure:"selectScript"`
	SelectEmit   string    `mapstructure:"selectEmit"`
}

// emitDTO is the object form of "emit".
type emitDTO struct {
	Name      string `mapstructure:"name"`
	Arguments []any  `mapstructure:"arguments"`
}

func (l *Loader) loadFile(ctx context.Context, path string, visiting []string) ([]*domain.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve menu path %s: %w", path, err)
	}
	if slices.Contains(visiting, abs) {
		chain := append(slices.Clone(visiting), abs)
		return nil, fmt.Errorf("%w: %s", domain.ErrIncludeCycle, strings.Join(chain, " -> "))
	}

	raw, err := decodeFile(abs)
	if err != nil {
		return nil, err
	}
	items, err := l.decodeItems(abs, raw)
	if err != nil {
		return nil, err
	}
	return l.build(ctx, items, filepath.Dir(abs), append(slices.Clone(visiting), abs))
}

func decodeFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}

	var raw any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		var doc map[string]any
		err = toml.Unmarshal(data, &doc)
		raw = doc
	default:
		return nil, fmt.Errorf("unsupported menu format %q: %s", ext, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return raw, nil
}

func (l *Loader) decodeItems(path string, raw any) ([]itemDTO, error) {
	if doc, ok := raw.(map[string]any); ok {
		menu, found := doc["menu"]
		if !found {
			return nil, fmt.Errorf("%s: document has no \"menu\" list", filepath.Base(path))
		}
		raw = menu
	}
	if _, ok := raw.([]any); !ok {
		if _, ok := raw.([]map[string]any); !ok {
			return nil, fmt.Errorf("%s: menu must be a list of items, got %T", filepath.Base(path), raw)
		}
	}

	var items []itemDTO
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   &items,
		Metadata: &md,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if len(md.Unused) > 0 {
		l.logger.Warn("ignoring unknown menu keys", "file", path, "keys", md.Unused)
	}
	return items, nil
}

func (l *Loader) build(ctx context.Context, items []itemDTO, dir string, visiting []string) ([]*domain.Node, error) {
	nodes := make([]*domain.Node, 0, len(items))
	for i, it := range items {
		n, err := l.node(ctx, it, dir, visiting)
		if err != nil {
			return nil, fmt.Errorf("item %d (%q): %w", i, it.Label, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (l *Loader) node(ctx context.Context, it itemDTO, dir string, visiting []string) (*domain.Node, error) {
	var (
		children []*domain.Node
		err      error
	)
	switch {
	case it.MenuFile != "":
		p := it.MenuFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		children, err = l.loadFile(ctx, p, visiting)
	case len(it.Menu) > 0:
		children, err = l.build(ctx, it.Menu, dir, visiting)
	}
	if err != nil {
		return nil, err
	}

	emit, err := decodeEmit(it.Emit)
	if err != nil {
		return nil, err
	}

	n := &domain.Node{Label: it.Label}
	switch {
	case len(children) > 0:
		n.Kind = domain.KindSubmenu
		n.Children = children
	case it.Command != "":
		n.Kind = domain.KindCommand
		n.Command = it.Command
		n.NotifyOn = emit.Name
	case emit.Name != "":
		n.Kind = domain.KindNotify
		n.Event = emit.Name
		n.Arguments = emit.Arguments
	case it.Options != "":
		n.Kind = domain.KindOptions
		n.DiscoveryCommand = it.Options
		n.ItemScript = it.SelectScript
		n.NotifyOn = it.SelectEmit
	default:
		n.Kind = domain.KindSubmenu
	}
	return n, nil
}

func decodeEmit(raw any) (emitDTO, error) {
	switch v := raw.(type) {
	case nil:
		return emitDTO{}, nil
	case string:
		return emitDTO{Name: v}, nil
	default:
		var out emitDTO
		if err := mapstructure.Decode(v, &out); err != nil {
			return emitDTO{}, fmt.Errorf("invalid emit: %w", err)
		}
		return out, nil
	}
}
