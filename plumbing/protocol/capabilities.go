// Package protocol implements the small parts of git's wire protocol
// version 2 needed to discover and fetch refs over smart-HTTP: the
// capability advertisement. The ls-refs/fetch command bodies are built
// by the transport/http client.
package protocol

import "strings"

// Capabilities is the set of "key" or "key=value" capabilities a
// protocol-v2 server advertises in its initial response.
type Capabilities struct {
	values map[string]string
	order  []string
}

// NewCapabilities returns an empty capability set.
func NewCapabilities() *Capabilities {
	return &Capabilities{values: make(map[string]string)}
}

// Decode parses one capability-advertisement line ("key" or
// "key=value") and adds it to c.
func (c *Capabilities) Decode(line string) {
	line = strings.TrimSuffix(line, "\n")
	if line == "" {
		return
	}

	k, v, _ := strings.Cut(line, "=")
	if _, ok := c.values[k]; !ok {
		c.order = append(c.order, k)
	}
	c.values[k] = v
}

// Supports reports whether capability k was advertised.
func (c *Capabilities) Supports(k string) bool {
	_, ok := c.values[k]
	return ok
}

// Get returns the value associated with capability k, if any.
func (c *Capabilities) Get(k string) (string, bool) {
	v, ok := c.values[k]
	return v, ok
}
