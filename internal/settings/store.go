package settings

import "sync/atomic"

// Store hands one Config to every component that needs it. The startup
// loader installs a config before the shell starts; readers never see a
// partially built value.
type Store struct {
	cur atomic.Pointer[Config]
}

// NewStore creates a store holding cfg.
func NewStore(cfg *Config) *Store {
	s := &Store{}
	s.cur.Store(cfg)
	return s
}

// Current returns the installed config. It is nil only for a zero Store
// that never had Install called.
func (s *Store) Current() *Config {
	return s.cur.Load()
}

// Install replaces the config.
func (s *Store) Install(cfg *Config) {
	s.cur.Store(cfg)
}

// LoadStore builds a store from the settings file at path, or from the
// embedded defaults when path is empty. A broken user file is an error;
// it never falls back silently.
func LoadStore(path string) (*Store, error) {
	var (
		cfg *Config
		err error
	)
	if path == "" {
		cfg, err = Default()
	} else {
		cfg, err = LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return NewStore(cfg), nil
}
