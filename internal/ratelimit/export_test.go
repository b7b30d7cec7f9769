package ratelimit

// Record возвращает копию записи для key.
func (s *MemoryStore) Record(key string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}
