package controls

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// ErrActionFailed is returned when a plugin reports an unsuccessful run.
var ErrActionFailed = errors.New("plugin action failed")

// PluginSource looks up discovered plugins by name.
type PluginSource interface {
	Get(name string) (*plugin.Plugin, error)
}

// Runner executes a plugin request.
type Runner interface {
	Execute(ctx context.Context, p *plugin.Plugin, req *plugin.Request) (*plugin.Response, error)
}

// BindingLister lists stored control bindings.
type BindingLister interface {
	List() ([]*store.Binding, error)
}

// Binder keeps a Registry in sync with the stored bindings.
type Binder struct {
	registry *Registry
	bindings BindingLister
	plugins  PluginSource
	runner   Runner
	log      zerolog.Logger
}

// NewBinder creates a Binder that fills registry from bindings.
func NewBinder(registry *Registry, bindings BindingLister, plugins PluginSource, runner Runner, log zerolog.Logger) *Binder {
	return &Binder{
		registry: registry,
		bindings: bindings,
		plugins:  plugins,
		runner:   runner,
		log:      log.With().Str("component", "controls").Logger(),
	}
}

// Reload reads every binding and replaces the registry table. Disabled
// bindings and bindings whose plugin is missing are left unregistered.
func (b *Binder) Reload() error {
	list, err := b.bindings.List()
	if err != nil {
		return fmt.Errorf("list bindings: %w", err)
	}

	handlers := make(map[string]Handler, len(list))
	for _, binding := range list {
		if !binding.Enabled {
			continue
		}
		p, err := b.plugins.Get(binding.PluginName)
		if err != nil {
			b.log.Warn().Err(err).
				Str("control", binding.Control).
				Str("plugin", binding.PluginName).
				Msg("binding skipped")
			continue
		}
		handlers[binding.Control] = PluginHandler(b.runner, p, binding)
	}

	b.registry.Replace(handlers)
	b.log.Info().Int("controls", len(handlers)).Msg("controls bound")
	return nil
}

// PluginHandler returns a Handler that runs the binding's action on p.
func PluginHandler(runner Runner, p *plugin.Plugin, binding *store.Binding) Handler {
	req := plugin.Request{
		Action:  binding.ActionName,
		Control: binding.Control,
		Params:  binding.Params,
	}
	return func(ctx context.Context) error {
		r := req
		resp, err := runner.Execute(ctx, p, &r)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("%w: %s", ErrActionFailed, resp.Error)
		}
		return nil
	}
}
