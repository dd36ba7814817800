package tzcache

import "os"

// NameSource supplies the local zone name. ok is false when no name is
// configured, which selects the wall-clock zone.
type NameSource interface {
	ZoneName() (name string, ok bool)
}

// EnvSource reads the zone name from an environment variable, TZ unless
// Var is set.
type EnvSource struct {
	Var string
}

func (s EnvSource) ZoneName() (string, bool) {
	v := s.Var
	if v == "" {
		v = "TZ"
	}
	return os.LookupEnv(v)
}

// StaticSource always reports Name.
type StaticSource struct {
	Name string
}

func (s StaticSource) ZoneName() (string, bool) { return s.Name, true }

// NameFunc adapts a function to the NameSource interface.
type NameFunc func() (string, bool)

func (f NameFunc) ZoneName() (string, bool) { return f() }
