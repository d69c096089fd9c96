// Config parsing for the linker: spec.md §4.7's `memories { ... }
// sections { ... }` grammar, read with the same token.Lexer the assembler
// uses (a handful of bare identifiers, `=`, `,`, `{`/`}`, and NUM/STR
// literals is all the sub-grammar needs), plus a YAML alternative selected
// by file extension - the two concrete syntaxes describe the same Config.
package link

import (
	"path/filepath"
	"strings"

	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
	"gopkg.in/yaml.v3"
)

// Config is the linker's fully-parsed memory map and section placement
// rules, independent of which concrete syntax produced it.
type Config struct {
	Memories []*Memory
	Sections []*SectionSpec
}

func (c *Config) memory(name view.View) *Memory {
	for _, m := range c.Memories {
		if m.Name.Equal(name) {
			return m
		}
	}
	return nil
}

// ParseConfig reads a linker config from src, named path purely to decide
// which concrete syntax to use (".yaml"/".yml" selects YAML; anything else
// uses the native token-stream grammar).
func ParseConfig(path string, src []byte, pool *view.Pool) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLConfig(src, pool)
	default:
		return parseNativeConfig(path, src, pool)
	}
}

// --- native grammar ---

type cfgParser struct {
	lex  *token.Lexer
	pool *view.Pool
}

func parseNativeConfig(path string, src []byte, pool *view.Pool) (*Config, error) {
	p := &cfgParser{lex: token.NewLexer(pool.InternString(path), src, pool), pool: pool}
	cfg := &Config{}
	for {
		t, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == token.EOF {
			return cfg, nil
		}
		if t.Kind != token.ID {
			return nil, smerr.Wrap(smerr.ErrConfig, "expected \"memories\" or \"sections\" at %s", t.Pos)
		}
		switch strings.ToLower(t.Text.String()) {
		case "memories":
			p.lex.Eat()
			mems, err := p.parseMemories()
			if err != nil {
				return nil, err
			}
			cfg.Memories = append(cfg.Memories, mems...)
		case "sections":
			p.lex.Eat()
			sects, err := p.parseSections()
			if err != nil {
				return nil, err
			}
			cfg.Sections = append(cfg.Sections, sects...)
		default:
			return nil, smerr.Wrap(smerr.ErrConfig, "unknown config block %q at %s", t.Text.String(), t.Pos)
		}
	}
}

func (p *cfgParser) expect(k token.Kind) (token.Tok, error) {
	t, err := p.lex.Peek()
	if err != nil {
		return token.Tok{}, err
	}
	if t.Kind != k {
		return token.Tok{}, smerr.Wrap(smerr.ErrConfig, "expected %s, got %s at %s", k, t.Kind, t.Pos)
	}
	return t, nil
}

// kvBlock reads `{ key = value, key = value, ... }`, calling set for every
// key/value pair and sawTags for a bare `tags { "a", "b" }` entry.
func (p *cfgParser) kvBlock(set func(key string, v token.Tok) error, sawTags func([]view.View) error) error {
	if _, err := p.expect(token.Kind('{')); err != nil {
		return err
	}
	p.lex.Eat()
	for {
		t, err := p.lex.Peek()
		if err != nil {
			return err
		}
		if t.Kind == token.Kind('}') {
			p.lex.Eat()
			return nil
		}
		if t.Kind != token.ID {
			return smerr.Wrap(smerr.ErrConfig, "expected a config key at %s", t.Pos)
		}
		key := strings.ToLower(t.Text.String())
		p.lex.Eat()

		if key == "tags" && sawTags != nil {
			tags, err := p.parseTags()
			if err != nil {
				return err
			}
			if err := sawTags(tags); err != nil {
				return err
			}
		} else {
			if _, err := p.expect(token.Kind('=')); err != nil {
				return err
			}
			p.lex.Eat()
			v, err := p.lex.Peek()
			if err != nil {
				return err
			}
			p.lex.Eat()
			if err := set(key, v); err != nil {
				return err
			}
		}

		t, err = p.lex.Peek()
		if err != nil {
			return err
		}
		if t.Kind == token.Kind(',') {
			p.lex.Eat()
		}
	}
}

func (p *cfgParser) parseTags() ([]view.View, error) {
	if _, err := p.expect(token.Kind('{')); err != nil {
		return nil, err
	}
	p.lex.Eat()
	var tags []view.View
	for {
		t, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == token.Kind('}') {
			p.lex.Eat()
			return tags, nil
		}
		if t.Kind != token.STR {
			return nil, smerr.Wrap(smerr.ErrConfig, "expected a tag string at %s", t.Pos)
		}
		tags = append(tags, t.Text)
		p.lex.Eat()
		if t2, err := p.lex.Peek(); err == nil && t2.Kind == token.Kind(',') {
			p.lex.Eat()
		}
	}
}

func (p *cfgParser) parseMemories() ([]*Memory, error) {
	if _, err := p.expect(token.Kind('{')); err != nil {
		return nil, err
	}
	p.lex.Eat()
	var out []*Memory
	for {
		t, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == token.Kind('}') {
			p.lex.Eat()
			return out, nil
		}
		if t.Kind != token.ID {
			return nil, smerr.Wrap(smerr.ErrConfig, "expected a memory name at %s", t.Pos)
		}
		m := &Memory{Name: t.Text}
		p.lex.Eat()

		haveKind := false
		err = p.kvBlock(func(key string, v token.Tok) error {
			switch key {
			case "start":
				m.Start = uint32(v.Num)
			case "size":
				m.Size = uint32(v.Num)
			case "fill":
				m.Fill = byte(v.Num)
			case "kind":
				kind, ok := parseMemoryKind(v.Text.String())
				if !ok {
					return smerr.Wrap(smerr.ErrConfig, "unknown memory kind %q at %s", v.Text.String(), v.Pos)
				}
				m.Kind, haveKind = kind, true
			default:
				return smerr.Wrap(smerr.ErrConfig, "unknown memory field %q at %s", key, v.Pos)
			}
			return nil
		}, nil)
		if err != nil {
			return nil, err
		}
		if m.Size == 0 {
			return nil, smerr.Wrap(smerr.ErrConfig, "memory %q missing size", m.Name.String())
		}
		if !haveKind {
			return nil, smerr.Wrap(smerr.ErrConfig, "memory %q missing kind", m.Name.String())
		}
		out = append(out, m)
	}
}

func (p *cfgParser) parseSections() ([]*SectionSpec, error) {
	if _, err := p.expect(token.Kind('{')); err != nil {
		return nil, err
	}
	p.lex.Eat()
	var out []*SectionSpec
	for {
		t, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == token.Kind('}') {
			p.lex.Eat()
			return out, nil
		}
		if t.Kind != token.ID {
			return nil, smerr.Wrap(smerr.ErrConfig, "expected a section name at %s", t.Pos)
		}
		s := &SectionSpec{Name: t.Text}
		p.lex.Eat()

		haveLoad, haveKind := false, false
		err = p.kvBlock(func(key string, v token.Tok) error {
			switch key {
			case "load":
				s.Load, haveLoad = v.Text, true
			case "kind":
				kind, ok := parseSectionKind(v.Text.String())
				if !ok {
					return smerr.Wrap(smerr.ErrConfig, "unknown section kind %q at %s", v.Text.String(), v.Pos)
				}
				s.Kind, haveKind = kind, true
			case "align":
				s.Align = uint32(v.Num)
			case "define":
				s.Define = v.Text
			default:
				return smerr.Wrap(smerr.ErrConfig, "unknown section field %q at %s", key, v.Pos)
			}
			return nil
		}, func(tags []view.View) error {
			s.Tags = tags
			return nil
		})
		if err != nil {
			return nil, err
		}
		if !haveLoad {
			return nil, smerr.Wrap(smerr.ErrConfig, "section %q missing load target", s.Name.String())
		}
		if !haveKind {
			return nil, smerr.Wrap(smerr.ErrConfig, "section %q missing kind", s.Name.String())
		}
		out = append(out, s)
	}
}

// --- YAML grammar ---

type yamlConfig struct {
	Memories map[string]yamlMemory `yaml:"memories"`
	Sections map[string]yamlSect   `yaml:"sections"`
}

type yamlMemory struct {
	Start uint32 `yaml:"start"`
	Size  uint32 `yaml:"size"`
	Fill  byte   `yaml:"fill"`
	Kind  string `yaml:"kind"`
}

type yamlSect struct {
	Load   string   `yaml:"load"`
	Kind   string   `yaml:"kind"`
	Align  uint32   `yaml:"align"`
	Define string   `yaml:"define"`
	Tags   []string `yaml:"tags"`
}

func parseYAMLConfig(src []byte, pool *view.Pool) (*Config, error) {
	var doc yamlConfig
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, smerr.Wrap(smerr.ErrConfig, "parse yaml config: %v", err)
	}
	cfg := &Config{}
	for name, m := range doc.Memories {
		kind, ok := parseMemoryKind(m.Kind)
		if !ok {
			return nil, smerr.Wrap(smerr.ErrConfig, "unknown memory kind %q", m.Kind)
		}
		cfg.Memories = append(cfg.Memories, &Memory{
			Name: pool.InternString(name), Start: m.Start, Size: m.Size, Fill: m.Fill, Kind: kind,
		})
	}
	for name, s := range doc.Sections {
		kind, ok := parseSectionKind(s.Kind)
		if !ok {
			return nil, smerr.Wrap(smerr.ErrConfig, "unknown section kind %q", s.Kind)
		}
		spec := &SectionSpec{
			Name: pool.InternString(name), Load: pool.InternString(s.Load),
			Kind: kind, Align: s.Align,
		}
		if s.Define != "" {
			spec.Define = pool.InternString(s.Define)
		}
		for _, tag := range s.Tags {
			spec.Tags = append(spec.Tags, pool.InternString(tag))
		}
		cfg.Sections = append(cfg.Sections, spec)
	}
	return cfg, nil
}
