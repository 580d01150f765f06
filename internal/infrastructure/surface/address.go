package surface

import (
	"net/url"
	"sync"

	"github.com/arf/areacheck/internal/ports"
)

// Address is the visible page address: a fixed path plus a replaceable query.
type Address struct {
	mu    sync.RWMutex
	path  string
	query url.Values
}

// NewAddress returns an address at path with an empty query.
func NewAddress(path string) *Address {
	if path == "" {
		path = "/"
	}
	return &Address{path: path}
}

// Replace implements ports.AddressBar.
func (a *Address) Replace(query url.Values) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.query = cloneValues(query)
}

// Location implements ports.AddressBar.
func (a *Address) Location() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.query) == 0 {
		return a.path
	}
	return a.path + "?" + a.query.Encode()
}

// Query returns a copy of the current query.
func (a *Address) Query() url.Values {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return cloneValues(a.query)
}

func cloneValues(v url.Values) url.Values {
	if len(v) == 0 {
		return nil
	}
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

var _ ports.AddressBar = (*Address)(nil)
