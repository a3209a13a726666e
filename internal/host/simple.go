package host

import "github.com/dshills/imphook/internal/module"

// Simple is a host with one substitutable resolver.
//
// For each search directory Simple first offers the request to the
// installed hook, then falls back to loading "<base>.star" itself.
type Simple struct {
	*Base
	hook Resolver
}

var _ HookSetter = (*Simple)(nil)

// NewSimple returns a Simple host.
func NewSimple(opts ...Option) *Simple {
	s := &Simple{}
	s.Base = newBase(s.find, opts...)
	return s
}

// SetImportHook installs r and returns the resolver it replaces.
func (s *Simple) SetImportHook(r Resolver) Resolver {
	prev := s.hook
	s.hook = r
	return prev
}

// ImportHook returns the installed resolver, or nil.
func (s *Simple) ImportHook() Resolver { return s.hook }

func (s *Simple) find(name, as string) (*module.Module, error) {
	for _, dir := range s.paths {
		base := BasePath(dir, name)
		if s.hook != nil {
			m, err := s.hook(as, base)
			if err != nil {
				return nil, err
			}
			if m != nil {
				return m, nil
			}
		}
		m, err := s.loadSource(as, base+SourceExt)
		if err != nil || m != nil {
			return m, err
		}
	}
	return nil, nil
}
