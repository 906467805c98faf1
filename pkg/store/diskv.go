package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// ErrNotFound is returned by Get for a key that was never set.
var ErrNotFound = errors.New("store: key not found")

// Preferences is a tiny persisted key/value store for client-side settings
// such as the theme.
type Preferences interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Keys(ctx context.Context) []string
	Watch(ctx context.Context) (<-chan Event, error)
}

// Open creates Preferences backed by diskv under basePath.
func Open(basePath string) (Preferences, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      64 * 1024,
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

// prefsDir holds every preference file.
const prefsDir = "prefs"

var validKey = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("store: invalid key %q", key)
	}
	return nil
}

func (p *persistence) Get(key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	val, err := p.d.Read(toKey(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("store: read %s: %w", key, err)
	}
	return strings.TrimSpace(string(val)), nil
}

func (p *persistence) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := p.d.Write(toKey(key), []byte(value)); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *persistence) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := p.d.Erase(toKey(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: erase %s: %w", key, err)
	}
	return nil
}

func (p *persistence) Keys(ctx context.Context) []string {
	keys := make([]string, 0)
	for key := range p.d.KeysPrefix(prefsDir+"-", ctx.Done()) {
		keys = append(keys, fromKey(key))
	}
	sort.Strings(keys)
	return keys
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `prefs-name`.
func toKey(name string) string {
	return prefsDir + "-" + name
}

func fromKey(key string) string {
	return strings.TrimPrefix(key, prefsDir+"-")
}
