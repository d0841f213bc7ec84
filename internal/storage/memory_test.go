package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestMemoryMissingSlot(t *testing.T) {
	m := NewMemory()
	payload, ok, err := m.Load(context.Background(), "tok1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || payload != nil {
		t.Fatalf("expected empty slot, got ok=%v payload=%q", ok, payload)
	}
}

func TestMemorySaveLoad(t *testing.T) {
	m := NewMemory()
	if err := m.Save(context.Background(), "tok1", []byte(`{"7":{"quantity":2}}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload, ok, err := m.Load(context.Background(), "tok1")
	if err != nil || !ok {
		t.Fatalf("expected stored payload, got ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(payload, []byte(`{"7":{"quantity":2}}`)) {
		t.Fatalf("unexpected payload: %q", payload)
	}
}

func TestMemoryTokenIsolation(t *testing.T) {
	m := NewMemory()
	if err := m.Save(context.Background(), "tok1", []byte(`x`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := m.Load(context.Background(), "tok2"); ok {
		t.Fatalf("slot for tok1 must not be visible under tok2")
	}
}

func TestMemoryCopiesPayload(t *testing.T) {
	m := NewMemory()
	src := []byte(`abc`)
	if err := m.Save(context.Background(), "tok1", src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src[0] = 'z'
	payload, _, _ := m.Load(context.Background(), "tok1")
	if string(payload) != "abc" {
		t.Fatalf("stored payload aliased caller's slice: %q", payload)
	}
}
