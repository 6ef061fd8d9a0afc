package redis

// key returns the namespaced Redis key for a store key
func (s *Storage) key(k string) string {
	return s.cfg.KeyPrefix + ":" + k
}

// matchAll returns the SCAN pattern covering every key of this store
func (s *Storage) matchAll() string {
	return s.cfg.KeyPrefix + ":*"
}
