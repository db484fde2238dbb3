// Package prompts holds the AI assist prompt templates. Each embedded JSON
// file maps a key to a text/template body; bodies are parsed on first use.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"text/template"
)

// AssistFile holds the prompts used by the assist service.
const AssistFile = "assist.json"

const (
	KeySummary = "generate-summary"
	KeyBullets = "generate-bullets"
	KeyRewrite = "rewrite-bullet"
	KeySkills  = "suggest-skills"
	KeyTailor  = "tailor-resume"
	KeyExtract = "extract-resume"
)

//go:embed *.json
var promptFiles embed.FS

// set is one parsed prompt file.
type set struct {
	raw  map[string]string
	tmpl *template.Template
}

var (
	mu     sync.Mutex
	loaded = map[string]*set{}
)

func load(filename string) (*set, error) {
	mu.Lock()
	defer mu.Unlock()

	if s, ok := loaded[filename]; ok {
		return s, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read prompt file %s: %w", filename, err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompt file %s: %w", filename, err)
	}

	root := template.New(filename).Option("missingkey=error")
	for key, body := range raw {
		if _, err := root.New(key).Parse(body); err != nil {
			return nil, fmt.Errorf("prompt %s in %s: %w", key, filename, err)
		}
	}

	s := &set{raw: raw, tmpl: root}
	loaded[filename] = s
	return s, nil
}

// Get returns the unrendered prompt body.
func Get(filename, key string) (string, error) {
	s, err := load(filename)
	if err != nil {
		return "", err
	}
	body, ok := s.raw[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return body, nil
}

// Render executes a prompt with data. Every field the prompt references must be
// present in data.
func Render(filename, key string, data map[string]string) (string, error) {
	s, err := load(filename)
	if err != nil {
		return "", err
	}
	if _, ok := s.raw[key]; !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	var sb strings.Builder
	if err := s.tmpl.ExecuteTemplate(&sb, key, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", key, err)
	}
	return sb.String(), nil
}

// List returns the prompt keys of a file, sorted.
func List(filename string) ([]string, error) {
	s, err := load(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(s.raw))
	for k := range s.raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}
