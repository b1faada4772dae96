package core

import "testing"

func TestMemStoreGetSetDelete(t *testing.T) {
	s := NewMemStore()
	key := []byte("k1")

	if ok, _ := s.Has(key); ok {
		t.Fatalf("expected key to be absent")
	}
	if err := s.Set(key, []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ok, _ := s.Has(key); !ok {
		t.Fatalf("expected key to be present")
	}
	v, err := s.Get(key)
	if err != nil || string(v) != "v1" {
		t.Fatalf("Get = %q, %v", v, err)
	}
	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := s.Has(key); ok {
		t.Fatalf("expected key to be absent after delete")
	}
}

func TestMemStoreIteratorOrderAndPrefix(t *testing.T) {
	s := NewMemStore()
	for _, k := range []string{"a:2", "a:1", "b:1", "a:3"} {
		if err := s.Set([]byte(k), []byte(k)); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	it := s.Iterator([]byte("a:"))
	defer it.Close()
	var got []string
	for it.Next() {
		got = append(got, string(it.Key()))
	}
	want := []string{"a:1", "a:2", "a:3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMemStoreSetCopiesValue(t *testing.T) {
	s := NewMemStore()
	v := []byte("original")
	if err := s.Set([]byte("k"), v); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v[0] = 'X'
	got, _ := s.Get([]byte("k"))
	if string(got) != "original" {
		t.Fatalf("store mutated by caller's slice: got %q", got)
	}
}
