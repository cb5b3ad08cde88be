package vulkan

import (
	"github.com/pkg/errors"
)

// Probe answers whether the platform supports a set of layers or instance
// extensions. It has no side effects and caches nothing.
type Probe struct {
	platform Platform
}

func NewProbe(platform Platform) *Probe {
	return &Probe{platform: platform}
}

// Layers lists the instance layers the platform reports.
func (p *Probe) Layers() ([]string, error) {
	layers, err := p.platform.AvailableLayers()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance layers")
	}
	return layers, nil
}

// Extensions lists the instance extensions the platform reports.
func (p *Probe) Extensions() ([]string, error) {
	exts, err := p.platform.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}
	return exts, nil
}

// SupportsLayers reports whether every requested layer is available, by
// exact name. It stops at the first missing layer. A failed enumeration
// counts as unsupported.
func (p *Probe) SupportsLayers(requested []string) bool {
	available, err := p.Layers()
	if err != nil {
		Logger().Warn("layer enumeration failed", "err", err)
		return false
	}
	return containsAll(available, requested)
}

// SupportsExtensions is SupportsLayers for instance extensions.
func (p *Probe) SupportsExtensions(requested []string) bool {
	available, err := p.Extensions()
	if err != nil {
		Logger().Warn("extension enumeration failed", "err", err)
		return false
	}
	return containsAll(available, requested)
}

// MissingLayers returns the requested layers the platform does not report,
// in request order.
func (p *Probe) MissingLayers(requested []string) ([]string, error) {
	available, err := p.Layers()
	if err != nil {
		return nil, err
	}
	return missing(available, requested), nil
}

// MissingExtensions returns the requested extensions the platform does not
// report, in request order.
func (p *Probe) MissingExtensions(requested []string) ([]string, error) {
	available, err := p.Extensions()
	if err != nil {
		return nil, err
	}
	return missing(available, requested), nil
}

func containsAll(available, requested []string) bool {
	for _, name := range requested {
		found := false
		for _, have := range available {
			if have == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func missing(available, requested []string) []string {
	have := make(map[string]struct{}, len(available))
	for _, name := range available {
		have[name] = struct{}{}
	}

	var out []string
	for _, name := range requested {
		if _, ok := have[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
