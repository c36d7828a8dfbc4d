package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/domain"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
)

// Module is a recommendation module. A new instance is built for every request.
type Module interface {
	Name() string
	Init(params Params)
	Process(ctx context.Context, primary Results)
	Results() []result.Heading
}

// Deps are the services factories build modules from.
type Deps struct {
	Authority AuthoritySearcher
	Logger    *zap.Logger
}

// Factory builds a module from its settings string.
type Factory func(settings string, deps Deps) (Module, error)

// Config is one configured module: "Name" or "Name:settings".
type Config struct {
	Name     string
	Settings string
}

// ParseConfig splits a configured module string at its first colon.
func ParseConfig(s string) (Config, error) {
	name, settings, _ := strings.Cut(strings.TrimSpace(s), ":")
	if name == "" {
		return Config{}, fmt.Errorf("%w: empty module name in %q", domain.ErrMalformedSettings, s)
	}
	return Config{Name: name, Settings: settings}, nil
}

// Registry maps module names to factories.
type Registry struct {
	deps      Deps
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in modules.
func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	r := &Registry{deps: deps, factories: make(map[string]Factory)}
	r.Register(AuthorityName, newAuthority)
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names returns the registered module names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// New builds a fresh module for cfg.
func (r *Registry) New(cfg Config) (Module, error) {
	f, ok := r.factories[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownModule, cfg.Name)
	}
	return f(cfg.Settings, r.deps)
}

// NewModule parses s and builds the module it names.
func (r *Registry) NewModule(s string) (Module, error) {
	cfg, err := ParseConfig(s)
	if err != nil {
		return nil, err
	}
	return r.New(cfg)
}

func newAuthority(settings string, deps Deps) (Module, error) {
	if deps.Authority == nil {
		return nil, fmt.Errorf("%s: authority index is not configured", AuthorityName)
	}
	return NewAuthorityRecommend(settings, deps.Authority, deps.Logger.Named("authority_recommend")), nil
}
