package identity

import (
	"bytes"
	_ "embed"
	"maps"
	"os"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

//go:embed prompt/default.yaml
var defaultPromptsRaw []byte

const defaultPresetKey = "default"

// Prompts is the prompt configuration of the backend: templates, the
// platforms and suffixes a presence check covers, and the avatar presets.
type Prompts struct {
	Generate  string            `yaml:"generate"`
	Presence  string            `yaml:"presence"`
	Avatar    string            `yaml:"avatar"`
	Platforms []string          `yaml:"platforms"`
	TLDs      []string          `yaml:"tlds"`
	Presets   map[string]string `yaml:"presets"`
	Image     ImageSettings     `yaml:"image"`

	generateTmpl *template.Template
	presenceTmpl *template.Template
	avatarTmpl   *template.Template
}

type ImageSettings struct {
	AspectRatio string `yaml:"aspect_ratio"`
	MIMEType    string `yaml:"mime_type"`
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

// DefaultPrompts returns the embedded configuration.
func DefaultPrompts() *Prompts {
	p, err := parsePrompts(defaultPromptsRaw, nil)
	if err != nil {
		panic("embedded prompt configuration is broken: " + err.Error())
	}
	return p
}

// LoadPrompts reads a YAML file and overlays it on the embedded
// configuration. Keys missing from the file keep their default.
func LoadPrompts(path string) (*Prompts, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read prompt config", goerr.V("path", path))
	}

	p, err := parsePrompts(raw, DefaultPrompts())
	if err != nil {
		return nil, goerr.Wrap(err, "invalid prompt config", goerr.V("path", path))
	}
	return p, nil
}

func parsePrompts(raw []byte, base *Prompts) (*Prompts, error) {
	var overlay Prompts
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return nil, goerr.Wrap(err, "failed to parse prompt YAML")
	}

	p := &Prompts{Presets: map[string]string{}}
	if base != nil {
		*p = *base
		p.Presets = maps.Clone(base.Presets)
	}

	if overlay.Generate != "" {
		p.Generate = overlay.Generate
	}
	if overlay.Presence != "" {
		p.Presence = overlay.Presence
	}
	if overlay.Avatar != "" {
		p.Avatar = overlay.Avatar
	}
	if len(overlay.Platforms) > 0 {
		p.Platforms = overlay.Platforms
	}
	if len(overlay.TLDs) > 0 {
		p.TLDs = overlay.TLDs
	}
	for k, v := range overlay.Presets {
		p.Presets[strings.ToLower(k)] = v
	}
	if overlay.Image.AspectRatio != "" {
		p.Image.AspectRatio = overlay.Image.AspectRatio
	}
	if overlay.Image.MIMEType != "" {
		p.Image.MIMEType = overlay.Image.MIMEType
	}

	if err := p.compile(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Prompts) compile() error {
	var err error
	if p.generateTmpl, err = template.New("generate").Funcs(templateFuncs).Parse(p.Generate); err != nil {
		return goerr.Wrap(err, "failed to parse generate template")
	}
	if p.presenceTmpl, err = template.New("presence").Funcs(templateFuncs).Parse(p.Presence); err != nil {
		return goerr.Wrap(err, "failed to parse presence template")
	}
	if p.avatarTmpl, err = template.New("avatar").Funcs(templateFuncs).Parse(p.Avatar); err != nil {
		return goerr.Wrap(err, "failed to parse avatar template")
	}
	if _, ok := p.Presets[defaultPresetKey]; !ok {
		return goerr.New("prompt config has no default avatar preset")
	}
	return nil
}

// Preset returns the visual preset for category, matched case-insensitively.
// Unknown categories get the default preset.
func (p *Prompts) Preset(category string) string {
	if preset, ok := p.Presets[strings.ToLower(strings.TrimSpace(category))]; ok {
		return preset
	}
	return p.Presets[defaultPresetKey]
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute prompt template", goerr.V("template", tmpl.Name()))
	}
	return buf.String(), nil
}
