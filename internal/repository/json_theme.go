package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/agrobot/internal/domain"
)

// JSONUserThemeRepo implements UserThemeRepo with one theme_<username>.json
// file per user.
type JSONUserThemeRepo struct {
	store *JSONStore
}

func NewJSONUserThemeRepo(store *JSONStore) *JSONUserThemeRepo {
	return &JSONUserThemeRepo{store: store}
}

func userThemeFile(username string) string {
	return "theme_" + username + ".json"
}

func (r *JSONUserThemeRepo) Load(ctx context.Context, username string) (*domain.Theme, error) {
	var t domain.Theme
	found, err := readJSON(r.store.path(userThemeFile(username)), &t)
	if err != nil {
		return nil, fmt.Errorf("loading theme for %s: %w", username, err)
	}
	if !found {
		return nil, fmt.Errorf("theme for %s: %w", username, ErrNotFound)
	}
	return &t, nil
}

func (r *JSONUserThemeRepo) Save(ctx context.Context, username string, theme domain.Theme) error {
	if err := writeJSON(r.store.path(userThemeFile(username)), theme); err != nil {
		return fmt.Errorf("saving theme for %s: %w", username, err)
	}
	return nil
}

// JSONCatalogRepo implements CatalogRepo on a single JSON object mapping
// theme name to theme. Names keep the order they have in the file.
type JSONCatalogRepo struct {
	path string
}

func NewJSONCatalogRepo(path string) *JSONCatalogRepo {
	return &JSONCatalogRepo{path: path}
}

// Path returns the catalog file location.
func (r *JSONCatalogRepo) Path() string { return r.path }

func (r *JSONCatalogRepo) Load(ctx context.Context) ([]domain.NamedTheme, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("theme catalog %s: %w", filepath.Base(r.path), ErrNotFound)
		}
		return nil, fmt.Errorf("opening theme catalog: %w", err)
	}
	defer f.Close()

	themes, err := decodeCatalog(json.NewDecoder(f))
	if err != nil {
		return nil, fmt.Errorf("decoding theme catalog: %w: %v", ErrMalformed, err)
	}
	return themes, nil
}

func (r *JSONCatalogRepo) Save(ctx context.Context, themes []domain.NamedTheme) error {
	var b strings.Builder
	b.WriteByte('{')
	for i, nt := range themes {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(nt.Name)
		if err != nil {
			return fmt.Errorf("encoding theme name: %w", err)
		}
		val, err := json.Marshal(nt.Theme)
		if err != nil {
			return fmt.Errorf("encoding theme %s: %w", nt.Name, err)
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')

	data, err := indentJSON([]byte(b.String()))
	if err != nil {
		return fmt.Errorf("indenting theme catalog: %w", err)
	}
	if err := writeFile(r.path, data); err != nil {
		return fmt.Errorf("saving theme catalog: %w", err)
	}
	return nil
}

// decodeCatalog walks the top-level object token by token so the entry
// order survives; encoding/json maps would lose it.
func decodeCatalog(dec *json.Decoder) ([]domain.NamedTheme, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var themes []domain.NamedTheme
	seen := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected theme name, got %v", tok)
		}
		var t domain.Theme
		if err := dec.Decode(&t); err != nil {
			return nil, fmt.Errorf("theme %q: %w", name, err)
		}
		// A repeated key overrides the earlier value in place, as a JSON
		// object decode would.
		if i, dup := seen[name]; dup {
			themes[i].Theme = t
			continue
		}
		seen[name] = len(themes)
		themes = append(themes, domain.NamedTheme{Name: name, Theme: t})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after catalog object")
	}
	return themes, nil
}
