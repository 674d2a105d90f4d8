// Package yamlconfig stores options in a YAML file. Option comments from the
// attached holders are written above their keys on every save.
package yamlconfig

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	config "github.com/CodeMyAss/Commodus"
	"github.com/CodeMyAss/Commodus/pkg/logging"
	"github.com/CodeMyAss/Commodus/pkg/store"
)

// ErrEmptyPath is returned by Open when no file path is given.
var ErrEmptyPath = errors.New("yamlconfig: file path must not be empty")

// Config is a config.Wrapper persisted as a YAML document.
type Config struct {
	path     string
	store    *store.MemoryStore
	holders  []*config.Holder
	logger   *logging.Logger
	debounce time.Duration
	perm     os.FileMode

	// mu serializes file access.
	mu sync.Mutex
	// digest is the hash of the file contents last read or written.
	digest [sha256.Size]byte
}

var _ config.Wrapper = (*Config)(nil)

// Open loads path. A missing file yields an empty config that is created on
// the first Save.
func Open(path string, opts ...Option) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("yamlconfig: %w", err)
	}
	c := &Config{
		path:     abs,
		store:    store.NewMemoryStore(),
		logger:   logging.Nop(),
		debounce: 100 * time.Millisecond,
		perm:     0o644,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns the absolute path of the backing file.
func (c *Config) Path() string {
	return c.path
}

// Store returns the in-memory tree reads and writes go through.
func (c *Config) Store() config.Store {
	return c.store
}

// Memory returns the underlying MemoryStore.
func (c *Config) Memory() *store.MemoryStore {
	return c.store
}

// Reload replaces the in-memory tree with the file contents. Values set but
// not saved are discarded.
func (c *Config) Reload() error {
	_, err := c.reload(false)
	return err
}

// reload reads the file and replaces the tree. With skipUnchanged it leaves
// the tree alone when the file still holds what was last read or saved, and
// reports false.
func (c *Config) reload(skipUnchanged bool) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		c.store.Replace(nil)
		c.digest = [sha256.Size]byte{}
		c.logger.Debug("config file missing, starting empty", logging.File(c.path))
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("yamlconfig: read %s: %w", c.path, err)
	}

	digest := sha256.Sum256(data)
	if skipUnchanged && digest == c.digest {
		return false, nil
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return false, fmt.Errorf("yamlconfig: parse %s: %w", c.path, err)
	}
	c.store.Replace(tree)
	c.digest = digest
	c.logger.Debug("config loaded", logging.File(c.path), zap.Int("keys", len(c.store.Keys())))
	return true, nil
}

// Save writes the tree to disk, creating parent directories as needed. The
// document is written to a temporary file and renamed over the old one.
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := encodeDocument(c.store.Snapshot(), c.comments())
	if err != nil {
		return fmt.Errorf("yamlconfig: encode %s: %w", c.path, err)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("yamlconfig: encode %s: %w", c.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("yamlconfig: %w", err)
	}
	if err := writeFileAtomic(c.path, data, c.perm); err != nil {
		return fmt.Errorf("yamlconfig: write %s: %w", c.path, err)
	}
	c.digest = sha256.Sum256(data)
	c.logger.Debug("config saved", logging.File(c.path))
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, path)
}

// CopyDefaults writes the defaults of every attached holder that are missing
// from the file, then saves when anything was written.
func (c *Config) CopyDefaults() ([]string, error) {
	var written []string
	for _, holder := range c.holders {
		paths, err := holder.CopyDefaults(c.store)
		written = append(written, paths...)
		if err != nil {
			return written, fmt.Errorf("yamlconfig: copy defaults of %s: %w", holder.Name(), err)
		}
	}
	if len(written) == 0 {
		return nil, nil
	}
	c.logger.Info("copied option defaults", logging.File(c.path), zap.Strings("paths", written))
	return written, c.Save()
}

func (c *Config) comments() map[string][]string {
	out := map[string][]string{}
	for _, holder := range c.holders {
		for path, lines := range holder.Comments() {
			out[path] = lines
		}
	}
	return out
}

func encodeDocument(tree map[string]any, comments map[string][]string) (*yaml.Node, error) {
	mapping, err := encodeMapping(tree, "", comments)
	if err != nil {
		return nil, err
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}}, nil
}

func encodeMapping(tree map[string]any, prefix string, comments map[string][]string) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	keys := make([]string, 0, len(tree))
	for key := range tree {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := key
		if prefix != "" {
			path = prefix + config.PathSeparator + key
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		if lines := comments[path]; len(lines) > 0 {
			keyNode.HeadComment = "# " + strings.Join(lines, "\n# ")
		}

		var valueNode *yaml.Node
		if child, ok := tree[key].(map[string]any); ok {
			mapping, err := encodeMapping(child, path, comments)
			if err != nil {
				return nil, err
			}
			valueNode = mapping
		} else {
			valueNode = &yaml.Node{}
			if err := valueNode.Encode(tree[key]); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}
