package template

import (
	"errors"
	"fmt"
)

var ErrUnknownTemplate = errors.New("no approval template registered for this name")

// Registry holds every approval template config, keyed by name. Built once
// at startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	configs map[string]Config
}

func NewRegistry() *Registry {
	r := &Registry{configs: make(map[string]Config)}
	for _, cfg := range builtinTemplates() {
		// Built-ins are code-defined; a duplicate is a programming error.
		if err := r.Register(cfg); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(cfg Config) error {
	if cfg.Name == "" {
		return errors.New("template name is required")
	}
	if len(cfg.Actions) == 0 {
		return fmt.Errorf("template %s has no actions", cfg.Name)
	}
	if _, exists := r.configs[cfg.Name]; exists {
		return fmt.Errorf("template %s already registered", cfg.Name)
	}
	if cfg.DataMapper == nil {
		cfg.DataMapper = identityMapper
	}
	r.configs[cfg.Name] = cfg
	return nil
}

func (r *Registry) Resolve(name string) (Config, error) {
	cfg, ok := r.configs[name]
	if !ok {
		return Config{}, ErrUnknownTemplate
	}
	return cfg, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	return names
}

func identityMapper(data map[string]interface{}) []Row {
	rows := make([]Row, 0, len(data))
	for key, value := range data {
		rows = append(rows, Row{Label: key, Value: fmt.Sprintf("%v", value)})
	}
	return rows
}
