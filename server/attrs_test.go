package server

import (
	"strings"
	"testing"

	"github.com/muxterm/termd/wire"
)

func TestAttributeMapSetGet(t *testing.T) {
	m := NewAttributeMap()
	if err := m.Set("foo", "bar"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok := m.Get("foo")
	if !ok || v != "bar" {
		t.Fatalf("Get(foo) = %q, %v; want \"bar\", true", v, ok)
	}
}

func TestAttributeMapRejectsRestrictedKey(t *testing.T) {
	m := NewAttributeMap()
	err := m.Set("id", "whatever")
	if err == nil {
		t.Fatalf("expected an error setting a restricted key")
	}
	if _, ok := err.(*wire.ReadOnlyError); !ok {
		t.Fatalf("err = %v (%T), want *wire.ReadOnlyError", err, err)
	}
}

func TestAttributeMapRejectsRestrictedPrefix(t *testing.T) {
	m := NewAttributeMap()
	if err := m.Set("proc.outcome", "0"); err == nil {
		t.Fatalf("expected an error setting a key under a restricted prefix")
	}
	if err := m.Remove("server.version"); err == nil {
		t.Fatalf("expected an error removing a key under a restricted prefix")
	}
}

func TestAttributeMapSetInternalBypassesRestriction(t *testing.T) {
	m := NewAttributeMap()
	if err := m.SetInternal("id", "abc-123"); err != nil {
		t.Fatalf("SetInternal on a restricted key should succeed: %v", err)
	}
	v, _ := m.Get("id")
	if v != "abc-123" {
		t.Fatalf("Get(id) = %q, want %q", v, "abc-123")
	}
}

func TestAttributeMapRejectsOversizeLine(t *testing.T) {
	m := NewAttributeMap()
	huge := strings.Repeat("x", MaxAttributeLine)
	err := m.Set("key", huge)
	if err == nil {
		t.Fatalf("expected an error for a line exceeding MaxAttributeLine")
	}
	if _, ok := err.(*wire.ResourceLimitError); !ok {
		t.Fatalf("err = %v (%T), want *wire.ResourceLimitError", err, err)
	}
}

func TestAttributeMapRemoveNotFound(t *testing.T) {
	m := NewAttributeMap()
	err := m.Remove("nonexistent")
	if err == nil {
		t.Fatalf("expected an error removing a key that was never set")
	}
	if _, ok := err.(*wire.NotFoundError); !ok {
		t.Fatalf("err = %v (%T), want *wire.NotFoundError", err, err)
	}
}

func TestAttributeMapMergeScriptResultDropsRestrictedKeys(t *testing.T) {
	m := NewAttributeMap()
	m.MergeScriptResult([]string{"proc.outcome=1", "custom.key=value", "malformed-no-equals"})

	if _, ok := m.Get("proc.outcome"); ok {
		t.Fatalf("MergeScriptResult must drop restricted keys")
	}
	if v, ok := m.Get("custom.key"); !ok || v != "value" {
		t.Fatalf("Get(custom.key) = %q, %v; want \"value\", true", v, ok)
	}
}

func TestIsRestricted(t *testing.T) {
	cases := map[string]bool{
		"id":             true,
		"host":           true,
		"server.version": true,
		"owner.name":     true,
		"custom.key":     false,
		"anything":       false,
	}
	for key, want := range cases {
		if got := IsRestricted(key); got != want {
			t.Errorf("IsRestricted(%q) = %v, want %v", key, got, want)
		}
	}
}
