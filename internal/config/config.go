package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/simcheck/internal/schema"
	"github.com/AndreyAkinshin/simcheck/internal/verify"
)

// Load reads a suite file, choosing the format by extension (.yaml/.yml for
// YAML, anything else as INI), resolves section directories against the
// file's directory and validates the result.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var suite *Suite
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		suite, err = ParseYAML(data)
	default:
		suite, err = ParseINI(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	suite.Path = path
	base := filepath.Dir(path)
	for i := range suite.Sections {
		dir := suite.Sections[i].WorkingDirectory
		if !filepath.IsAbs(dir) {
			suite.Sections[i].WorkingDirectory = filepath.Join(base, dir)
		}
	}

	if err := Validate(suite); err != nil {
		return nil, err
	}
	return suite, nil
}

// ParseINI parses the section-based key/value format. Each section holds one
// input_dir key; every other key is a case in file order.
func ParseINI(data []byte) (*Suite, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		SpaceBeforeInlineComment: true,
	}, data)
	if err != nil {
		return nil, err
	}

	suite := &Suite{Tolerance: verify.DefaultPolicy()}
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		section := Section{Name: sec.Name()}
		for _, key := range sec.Keys() {
			if key.Name() == DirectoryKey {
				section.WorkingDirectory = key.String()
				continue
			}
			c, err := ParseCase(key.Name(), key.String())
			if err != nil {
				return nil, fmt.Errorf("section %q: %w", sec.Name(), err)
			}
			section.Cases = append(section.Cases, c)
		}
		if section.WorkingDirectory == "" {
			return nil, &ValidationError{Field: sec.Name() + "." + DirectoryKey, Message: "is required"}
		}
		suite.Sections = append(suite.Sections, section)
	}
	return suite, nil
}

type yamlSuite struct {
	Tolerance verify.Policy `yaml:"tolerance"`
	Sections  []struct {
		Name     string `yaml:"name"`
		InputDir string `yaml:"input_dir"`
		Cases    []struct {
			Input    string `yaml:"input"`
			Expected string `yaml:"expected"`
		} `yaml:"cases"`
	} `yaml:"sections"`
}

// ParseYAML parses the YAML suite format after validating it against the
// embedded schema.
func ParseYAML(data []byte) (*Suite, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := schema.ValidateSuiteValue(doc); err != nil {
		return nil, err
	}

	// Decoding onto the defaults keeps any coefficient the file leaves unset.
	raw := yamlSuite{Tolerance: verify.DefaultPolicy()}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	suite := &Suite{Tolerance: raw.Tolerance}

	for _, rs := range raw.Sections {
		section := Section{Name: rs.Name, WorkingDirectory: rs.InputDir}
		for _, rc := range rs.Cases {
			c, err := ParseCase(rc.Input, rc.Expected)
			if err != nil {
				return nil, fmt.Errorf("section %q: %w", rs.Name, err)
			}
			section.Cases = append(section.Cases, c)
		}
		suite.Sections = append(suite.Sections, section)
	}
	return suite, nil
}

// ParseCase builds a case from its key and value: either the forces token or a
// whitespace-separated list of decimal literals and wildcards.
func ParseCase(name, value string) (Case, error) {
	c := Case{Name: strings.TrimSuffix(name, InputExtension)}
	value = strings.TrimSpace(value)
	if value == ForcesToken {
		c.Mode = ModeForces
		return c, nil
	}

	for i, tok := range strings.Fields(value) {
		if tok == WildcardToken {
			c.Expected = append(c.Expected, Expected{Raw: tok, Wildcard: true})
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Case{}, &ValidationError{
				Field:   fmt.Sprintf("%s[%d]", name, i),
				Message: fmt.Sprintf("expected value %q is neither a number nor %q", tok, WildcardToken),
			}
		}
		c.Expected = append(c.Expected, Expected{Raw: tok, Value: v})
	}
	return c, nil
}
