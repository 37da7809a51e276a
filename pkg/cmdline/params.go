// Package cmdline manipulates kernel command lines as ordered lists of
// parameters such as "quiet" or "resume=UUID=...".
package cmdline

import (
	"strings"

	"github.com/alessio/shellescape"
	"github.com/hibernatectl/hibernatectl/internal/shell"
)

// Params is a kernel command line split into individual parameters. Order
// is preserved because the kernel honors the last occurrence and some
// parameters are position sensitive for humans reading the file.
type Params []string

// Parse shell-splits a kernel command line into Params.
func Parse(s string) (Params, error) {
	parts, err := shell.Split(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return Params(parts), nil
}

// key returns the part of a parameter before the first '='.
func key(s string) string {
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		return s[:idx]
	}
	return s
}

// Index returns the position of a parameter with the same key, or -1.
func (p Params) Index(s string) int {
	k := key(s)
	for i, v := range p {
		if v == s || key(v) == k {
			return i
		}
	}
	return -1
}

// Include reports whether a parameter with the same key is present.
func (p Params) Include(s string) bool {
	return p.Index(s) > -1
}

// Get returns the full parameter with its value, or "" when not present.
func (p Params) Get(s string) string {
	idx := p.Index(s)
	if idx < 0 {
		return ""
	}
	return p[idx]
}

// GetValue returns the value of a parameter, "" when the parameter is
// missing or has no value.
func (p Params) GetValue(s string) string {
	full := p.Get(s)
	if idx := strings.IndexByte(full, '='); idx >= 0 {
		return full[idx+1:]
	}
	return ""
}

// Add appends a parameter regardless of whether its key already exists.
func (p *Params) Add(s string) {
	*p = append(*p, s)
}

// AddUnlessExist appends a parameter unless one with the same key exists.
func (p *Params) AddUnlessExist(s string) {
	if p.Include(s) {
		return
	}
	p.Add(s)
}

// AddOrReplace replaces a parameter with the same key or appends it.
func (p *Params) AddOrReplace(s string) {
	if idx := p.Index(s); idx > -1 {
		(*p)[idx] = s
		return
	}
	p.Add(s)
}

// Delete removes the parameter with a matching key.
func (p *Params) Delete(s string) {
	idx := p.Index(s)
	if idx < 0 {
		return
	}
	*p = append((*p)[:idx], (*p)[idx+1:]...)
}

// Equals reports whether both command lines carry the same parameters and
// values, ignoring order.
func (p Params) Equals(other Params) bool {
	if len(p) != len(other) {
		return false
	}
	for _, param := range p {
		if other.Get(param) != param {
			return false
		}
	}
	return true
}

// String joins the parameters back into a command line, quoting values
// that contain whitespace.
func (p Params) String() string {
	parts := make([]string, 0, len(p))
	for _, param := range p {
		k := key(param)
		if k == param {
			parts = append(parts, param)
			continue
		}
		v := param[len(k)+1:]
		if strings.ContainsAny(v, " \t") {
			v = shellescape.Quote(v)
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}
