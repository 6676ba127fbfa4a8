package application

import "github.com/pilisp/emacs-inf-pilisp/internal/domain"

// arglistCache remembers only the last symbol looked up, which is all a
// cursor walking through code needs. Guarded by the session mutex.
type arglistCache struct {
	symbol string
	answer domain.Answer
	filled bool
}

func (c *arglistCache) get(symbol string) (domain.Answer, bool) {
	if !c.filled || c.symbol != symbol {
		return domain.Answer{}, false
	}
	return c.answer, true
}

func (c *arglistCache) put(symbol string, answer domain.Answer) {
	c.symbol = symbol
	c.answer = answer
	c.filled = true
}

func (c *arglistCache) reset() {
	*c = arglistCache{}
}

func (s *Session) cachedArglist(symbol string) (domain.Answer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.arglists.get(symbol)
}

func (s *Session) storeArglist(symbol string, answer domain.Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return
	}
	s.arglists.put(symbol, answer)
}
