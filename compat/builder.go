package compat

import (
	"fmt"

	"github.com/lixenwraith/dlog"
)

// Builder provides a flexible way to create module-bound adapters for gnet,
// fasthttp and zerolog. It uses an existing *dlog.Facility or creates one from
// a *dlog.Config and module source.
type Builder struct {
	facility *dlog.Facility
	cfg      *dlog.Config
	source   dlog.ModuleSource
	err      error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithFacility specifies an existing facility to register adapter modules with.
// If this is set WithConfig and WithModules are ignored.
func (b *Builder) WithFacility(f *dlog.Facility) *Builder {
	if f == nil {
		b.err = fmt.Errorf("dlog/compat: provided facility cannot be nil")
		return b
	}
	b.facility = f
	return b
}

// WithConfig provides a configuration for a new facility instance
func (b *Builder) WithConfig(cfg *dlog.Config) *Builder {
	b.cfg = cfg
	return b
}

// WithModules provides the module source for a new facility instance
func (b *Builder) WithModules(src dlog.ModuleSource) *Builder {
	b.source = src
	return b
}

// getFacility resolves the facility to be used, creating one if necessary
func (b *Builder) getFacility() (*dlog.Facility, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.facility != nil {
		return b.facility, nil
	}

	f, err := dlog.New(b.cfg, b.source)
	if err != nil {
		return nil, err
	}

	// Cache the new facility for subsequent builds with this builder
	b.facility = f
	return f, nil
}

// register resolves the facility and registers the adapter's module
func (b *Builder) register(module string) (*dlog.Logger, error) {
	f, err := b.getFacility()
	if err != nil {
		return nil, err
	}
	return f.Register(module)
}

// BuildGnet creates a gnet adapter writing through the named module
func (b *Builder) BuildGnet(module string, opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.register(module)
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter writing through the named module
func (b *Builder) BuildFastHTTP(module string, opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.register(module)
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// BuildZerolog creates a zerolog level writer writing through the named module
func (b *Builder) BuildZerolog(module string) (*ZerologWriter, error) {
	l, err := b.register(module)
	if err != nil {
		return nil, err
	}
	return NewZerologWriter(l), nil
}

// BuildCollector creates a Prometheus collector for the facility
func (b *Builder) BuildCollector(namespace string) (*Collector, error) {
	f, err := b.getFacility()
	if err != nil {
		return nil, err
	}
	return NewCollector(f, namespace), nil
}

// GetFacility returns the underlying facility, creating it if needed
func (b *Builder) GetFacility() (*dlog.Facility, error) {
	return b.getFacility()
}

// --- Example Usage ---
//
//	modules := dlog.StaticModules{
//		"gnet":     {Level: dlog.SeverityInfo, Output: dlog.OutputFile, File: "gnet.log"},
//		"fasthttp": {Level: dlog.SeverityWarn, Output: dlog.OutputFile, File: "http.log"},
//	}
//	builder := compat.NewBuilder().WithModules(modules)
//
//	gnetLogger, err := builder.BuildGnet("gnet")
//	if err != nil { /* handle error */ }
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	httpLogger, err := builder.BuildFastHTTP("fasthttp")
//	if err != nil { /* handle error */ }
//	server := &fasthttp.Server{Handler: handler, Logger: httpLogger}
//
//	collector, _ := builder.BuildCollector("app")
//	prometheus.MustRegister(collector)
