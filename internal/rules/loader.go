// File path: internal/rules/loader.go
package rules

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"codecritic/internal/common"
)

// DefaultRulesDir is where custom rule files live relative to the repo root.
const DefaultRulesDir = ".codecritic/rules"

// LoadRulesDir reads every .yaml/.yml file under dir into compiled rules.
// A missing directory yields no rules. Individual files that fail to parse
// or compile are logged and skipped; they never fail the load.
func LoadRulesDir(dir string) ([]Rule, error) {
	logger := common.Logger()
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat rules dir: %w", err)
	}
	var rules []Rule
	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		rule, err := loadRuleFile(path)
		if err != nil {
			logger.Warn("rules: skipping invalid rule file", "path", path, "error", err)
			return nil
		}
		rules = append(rules, rule)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk rules dir: %w", walkErr)
	}
	return rules, nil
}

func loadRuleFile(path string) (Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rule{}, fmt.Errorf("read rule file: %w", err)
	}
	var rule Rule
	if err := yaml.Unmarshal(data, &rule); err != nil {
		return Rule{}, fmt.Errorf("parse rule file: %w", err)
	}
	if err := rule.Compile(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

// NewCustomPack loads custom rules from dir into a pack named "custom".
// An empty dir falls back to DefaultRulesDir under the working directory.
func NewCustomPack(dir string) (Pack, error) {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultRulesDir
	}
	rules, err := LoadRulesDir(dir)
	if err != nil {
		return nil, err
	}
	return &staticPack{name: "custom", version: "local", rules: rules}, nil
}
