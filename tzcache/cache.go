// Package tzcache keeps the process's local and UTC zones and serves
// conversions against them.
//
// The local zone follows a NameSource and is reloaded lazily, on the next
// conversion after the name changes. Loading never fails on that path:
// a name that is neither a zone file nor a valid rule leaves the local
// zone at UTC, and the failure is logged. Reconfigure pins a name and
// reports failures instead.
package tzcache

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ngrash/go-localtime/posixtz"
	"github.com/ngrash/go-localtime/zone"
	"github.com/ngrash/go-localtime/zoneinfo"
)

const (
	// DefaultWallClock is the zone file used when no name is configured.
	DefaultWallClock = "/etc/localtime"
	// DefaultRules names the zone whose transitions rule strings without
	// explicit dates borrow.
	DefaultRules = "posixrules"
	// UTCName is the zone file tried for the UTC slot.
	UTCName = "UTC"
)

// Selector picks the zone a conversion runs in.
type Selector int

const (
	SelectLocal Selector = iota
	SelectUTC
)

func (s Selector) String() string {
	switch s {
	case SelectLocal:
		return "local"
	case SelectUTC:
		return "UTC"
	default:
		return fmt.Sprintf("Selector(%d)", int(s))
	}
}

// Options configures a Cache. Zero fields take the defaults noted.
type Options struct {
	// Names supplies the local zone name; EnvSource{} by default.
	Names NameSource
	// Resolver finds zone files; zoneinfo.DirResolver{} by default.
	Resolver zoneinfo.Resolver
	// Logger receives load attempts and fallbacks; nothing is logged
	// by default.
	Logger *zerolog.Logger
	// Range is the host instant range; zone.Range64 by default.
	Range zone.Range
	// WallClock is the zone file used while Names reports no name;
	// DefaultWallClock by default.
	WallClock string
}

type slotState int

const (
	unloaded slotState = iota
	wallClock
	named
	pinned
)

// Cache holds the local and UTC zones. It is safe for concurrent use.
type Cache struct {
	names     NameSource
	resolver  zoneinfo.Resolver
	log       zerolog.Logger
	rng       zone.Range
	wallClock string

	mu    sync.RWMutex
	local *zone.Zone
	state slotState
	name  string

	utcOnce sync.Once
	utc     *zone.Zone

	rulesOnce sync.Once
	rules     *zone.Zone
}

// New returns a Cache. Nothing is loaded until first use.
func New(opts Options) *Cache {
	c := &Cache{
		names:     opts.Names,
		resolver:  opts.Resolver,
		log:       zerolog.Nop(),
		rng:       opts.Range,
		wallClock: opts.WallClock,
	}
	if c.names == nil {
		c.names = EnvSource{}
	}
	if c.resolver == nil {
		c.resolver = zoneinfo.DirResolver{}
	}
	if opts.Logger != nil {
		c.log = *opts.Logger
	}
	if c.rng == (zone.Range{}) {
		c.rng = zone.Range64
	}
	if c.wallClock == "" {
		c.wallClock = DefaultWallClock
	}
	return c
}

var defaultCache = sync.OnceValue(func() *Cache { return New(Options{}) })

// Default returns the process-wide Cache over the TZ environment variable
// and the system zone directories.
func Default() *Cache { return defaultCache() }

// current reports whether the local slot matches the name source. It is
// called with c.mu held.
func (c *Cache) current(name string, ok bool) bool {
	switch c.state {
	case pinned:
		return true
	case wallClock:
		return !ok
	case named:
		return ok && c.name == name
	}
	return false
}

// refreshLocked reloads the local slot if the name source moved on. It
// is called with c.mu read-locked and returns with it read-locked, though
// the lock may have been released in between.
func (c *Cache) refreshLocked() {
	name, ok := c.names.ZoneName()
	if c.current(name, ok) {
		return
	}
	c.mu.RUnlock()
	c.mu.Lock()
	if !c.current(name, ok) {
		c.reload(name, ok)
	}
	c.mu.Unlock()
	c.mu.RLock()
}

// reload is called with c.mu write-locked.
func (c *Cache) reload(name string, ok bool) {
	if !ok {
		z, err := zoneinfo.Load(c.wallClock, c.resolver, zoneinfo.Options{Range: c.rng})
		if err != nil {
			c.log.Warn().Err(err).Str("zone", c.wallClock).Msg("wall clock zone unavailable, using UTC")
			z = c.UTC()
		}
		c.local, c.state, c.name = z, wallClock, ""
		return
	}
	z, err := c.load(name)
	if err != nil {
		c.log.Warn().Err(err).Str("zone", name).Msg("local zone unavailable, using UTC")
		z = c.UTC()
	}
	c.local, c.state, c.name = z, named, name
}

// load resolves name as a zone file and then as a rule string. Names
// beginning with ':' are only tried as files.
func (c *Cache) load(name string) (*zone.Zone, error) {
	if name == "" {
		return c.UTC(), nil
	}
	z, err := zoneinfo.Load(name, c.resolver, zoneinfo.Options{Range: c.rng})
	if err == nil {
		c.log.Debug().Str("zone", name).Msg("loaded zone file")
		return z, nil
	}
	if strings.HasPrefix(name, ":") {
		return nil, err
	}
	c.log.Debug().Err(err).Str("zone", name).Msg("no zone file, parsing as rule")
	z, perr := posixtz.Parse(name, posixtz.Options{Defaults: c.defaultRules(), Range: c.rng})
	if perr != nil {
		return nil, errors.Join(err, perr)
	}
	return z, nil
}

func (c *Cache) defaultRules() *zone.Zone {
	c.rulesOnce.Do(func() {
		z, err := zoneinfo.Load(DefaultRules, c.resolver, zoneinfo.Options{Range: c.rng})
		if err != nil {
			c.log.Debug().Err(err).Msg("no default rules, rule strings use " + posixtz.DefaultRule)
			return
		}
		c.rules = z
	})
	return c.rules
}

// Reconfigure pins the local zone to name until Unpin. If name can be
// loaded neither as a zone file nor as a rule string, the error is
// returned and the previous local zone stays in place.
func (c *Cache) Reconfigure(name string) error {
	z, err := c.load(name)
	if err != nil {
		c.log.Warn().Err(err).Str("zone", name).Msg("reconfigure failed")
		return fmt.Errorf("tzcache: reconfigure %q: %w", name, err)
	}
	c.mu.Lock()
	c.local, c.state, c.name = z, pinned, name
	c.mu.Unlock()
	c.log.Debug().Str("zone", name).Msg("local zone pinned")
	return nil
}

// Unpin makes the local zone follow the name source again.
func (c *Cache) Unpin() {
	c.mu.Lock()
	if c.state == pinned {
		c.state = unloaded
	}
	c.mu.Unlock()
}

// UTC returns the UTC zone, loading it on first use.
func (c *Cache) UTC() *zone.Zone {
	c.utcOnce.Do(func() {
		z, err := zoneinfo.Load(UTCName, c.resolver, zoneinfo.Options{Range: c.rng})
		if err == nil {
			c.utc = z
			return
		}
		c.log.Debug().Err(err).Msg("no UTC zone file, using built-in UTC")
		z, err = posixtz.LastDitch(UTCName, posixtz.Options{Range: c.rng})
		if err != nil {
			z = zone.UTC()
		}
		c.utc = z
	})
	return c.utc
}

// Local returns the local zone, reloading it if the name changed.
func (c *Cache) Local() *zone.Zone {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.refreshLocked()
	return c.local
}

// with runs f against the selected zone. For the local zone, the read
// lock is held for the duration of f.
func (c *Cache) with(sel Selector, f func(z *zone.Zone) error) error {
	switch sel {
	case SelectUTC:
		return f(c.UTC())
	case SelectLocal:
		c.mu.RLock()
		defer c.mu.RUnlock()
		c.refreshLocked()
		return f(c.local)
	default:
		return fmt.Errorf("tzcache: unknown selector %v", sel)
	}
}

// Civil converts t to civil time in the selected zone.
func (c *Cache) Civil(t int64, sel Selector) (zone.Civil, error) {
	var out zone.Civil
	err := c.CivilInto(t, sel, &out)
	return out, err
}

// CivilInto is Civil writing into caller-owned storage.
func (c *Cache) CivilInto(t int64, sel Selector, out *zone.Civil) error {
	return c.with(sel, func(z *zone.Zone) error { return z.CivilInto(t, out) })
}

// CivilOffset converts t to civil time at a fixed offset east of UT,
// applying the UTC zone's leap seconds.
func (c *Cache) CivilOffset(t int64, off int32) (zone.Civil, error) {
	return c.UTC().CivilOffset(t, off)
}

// FromCivil converts civil time in the selected zone to an instant and
// normalizes tm. In the UTC zone dst is ignored.
func (c *Cache) FromCivil(tm *zone.Civil, sel Selector, dst zone.DST) (int64, error) {
	var t int64
	err := c.with(sel, func(z *zone.Zone) error {
		var err error
		if sel == SelectUTC {
			t, err = z.FromCivilOffset(tm, 0)
		} else {
			t, err = z.FromCivil(tm, dst)
		}
		return err
	})
	return t, err
}

// FromCivilOffset converts civil time at a fixed offset east of UT to an
// instant and normalizes tm.
func (c *Cache) FromCivilOffset(tm *zone.Civil, off int32) (int64, error) {
	return c.UTC().FromCivilOffset(tm, off)
}

// Time2Posix removes the local zone's leap correction from t.
func (c *Cache) Time2Posix(t int64) (int64, error) {
	var p int64
	err := c.with(SelectLocal, func(z *zone.Zone) error {
		var err error
		p, err = z.Time2Posix(t)
		return err
	})
	return p, err
}

// Posix2Time is the inverse of Time2Posix.
func (c *Cache) Posix2Time(p int64) (int64, error) {
	var t int64
	err := c.with(SelectLocal, func(z *zone.Zone) error {
		var err error
		t, err = z.Posix2Time(p)
		return err
	})
	return t, err
}

// Summary describes the local zone.
func (c *Cache) Summary() zone.Summary {
	var s zone.Summary
	_ = c.with(SelectLocal, func(z *zone.Zone) error {
		s = z.Summary()
		return nil
	})
	return s
}
