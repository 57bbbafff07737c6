package server

import (
	"strings"
	"sync"

	"github.com/muxterm/termd/wire"
)

// MaxAttributeLine is the cap on one "key=value" attribute line, spec
// §6 "Attribute map".
const MaxAttributeLine = 4096

// restrictedKeys lists the exact attribute keys a client may never set
// or remove directly; they are stamped by the server itself.
var restrictedKeys = map[string]bool{
	"id":         true,
	"machine-id": true,
	"started":    true,
	"uid":        true,
	"gid":        true,
	"user":       true,
	"host":       true,
}

// restrictedPrefixes lists dotted namespaces reserved for the server
// and its collaborators; a client may read these but not write them.
var restrictedPrefixes = []string{"server.", "proc.", "owner.", "session.", "sender."}

// IsRestricted reports whether a client is forbidden from mutating key
// directly (spec §6).
func IsRestricted(key string) bool {
	if restrictedKeys[key] {
		return true
	}
	for _, p := range restrictedPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// AttributeMap is the key/value store backing a terminal, connection,
// or server's attribute set (spec §6). Every mutation path funnels
// through Set/Remove so the 4 KiB line cap and the restricted-key rule
// are enforced in one place.
type AttributeMap struct {
	mu    sync.RWMutex
	value map[string]string
}

func NewAttributeMap() *AttributeMap {
	return &AttributeMap{value: map[string]string{}}
}

func (m *AttributeMap) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.value[key]
	return v, ok
}

func (m *AttributeMap) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.value))
	for k, v := range m.value {
		out[k] = v
	}
	return out
}

// SetInternal sets a key bypassing the restricted-key check, for use by
// the server itself (stamping id, host, proc.* outcomes, etc).
func (m *AttributeMap) SetInternal(key, value string) error {
	if len(key)+len(value)+1 > MaxAttributeLine {
		return &wire.ResourceLimitError{Resource: "attribute line", Limit: MaxAttributeLine, Got: len(key) + len(value) + 1}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value[key] = value
	return nil
}

// Set sets a key on behalf of a client, rejecting restricted keys and
// oversize lines.
func (m *AttributeMap) Set(key, value string) error {
	if IsRestricted(key) {
		return &wire.ReadOnlyError{Key: key}
	}
	return m.SetInternal(key, value)
}

// Remove deletes a key on behalf of a client.
func (m *AttributeMap) Remove(key string) error {
	if IsRestricted(key) {
		return &wire.ReadOnlyError{Key: key}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.value[key]; !ok {
		return &wire.NotFoundError{Kind: "attribute", Key: key}
	}
	delete(m.value, key)
	return nil
}

// RemoveInternal deletes a key bypassing the restricted-key check.
func (m *AttributeMap) RemoveInternal(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.value, key)
}

// MergeScriptResult merges KEY=VALUE lines from an attribute-script
// collaborator, silently dropping any restricted key (spec §6
// "Attribute-script collaborator").
func (m *AttributeMap) MergeScriptResult(lines []string) {
	for _, line := range lines {
		k, v, ok := strings.Cut(line, "=")
		if !ok || IsRestricted(k) {
			continue
		}
		_ = m.SetInternal(k, v)
	}
}
