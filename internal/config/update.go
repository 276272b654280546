package config

import (
	"bytes"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/rtop/internal/errors"
)

// Save writes cfg to path. When path already holds a YAML mapping, its
// comments and any keys rtop does not own are preserved and only the
// managed keys are replaced. The file is written to a temporary sibling
// and renamed into place, so a crash never leaves a truncated config.
func Save(path string, cfg *Config) error {
	var fresh yaml.Node
	if err := fresh.Encode(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}

	root := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{&fresh}}
	if data, err := os.ReadFile(path); err == nil {
		var existing yaml.Node
		if yaml.Unmarshal(data, &existing) == nil &&
			existing.Kind == yaml.DocumentNode && len(existing.Content) > 0 &&
			existing.Content[0].Kind == yaml.MappingNode {
			mergeMapping(existing.Content[0], &fresh)
			root = &existing
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	encoder.Close()

	return writeAtomic(path, buf.Bytes())
}

// mergeMapping replaces or appends every key of src in dst, keeping dst's
// key nodes (and their comments) where they already exist.
func mergeMapping(dst, src *yaml.Node) {
	for i := 0; i+1 < len(src.Content); i += 2 {
		key, value := src.Content[i], src.Content[i+1]
		if idx := findMapIndex(dst, key.Value); idx >= 0 {
			value.HeadComment = dst.Content[idx+1].HeadComment
			value.LineComment = dst.Content[idx+1].LineComment
			dst.Content[idx+1] = value
			continue
		}
		dst.Content = append(dst.Content, key, value)
	}
}

// findMapIndex returns the index of key's key node in a mapping node, or -1.
func findMapIndex(node *yaml.Node, key string) int {
	if node.Kind != yaml.MappingNode {
		return -1
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		k := node.Content[i]
		if k.Kind == yaml.ScalarNode && k.Value == key {
			return i
		}
	}
	return -1
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create config directory "+dir,
			"Check directory permissions")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot write config file "+path,
			"Check directory permissions")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WrapWithCode(err, errors.ErrConfig, "Cannot write config file "+path, "")
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Cannot write config file "+path, "")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Cannot replace config file "+path, "")
	}
	return nil
}
