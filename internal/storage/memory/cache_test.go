package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

const shortTTL = 20 * time.Millisecond

// expire waits until entries stored with shortTTL are past their deadline.
func expire() {
	time.Sleep(2 * shortTTL)
}

func TestCache_GetSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewCache()

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(v) != "v" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}

	_ = c.Set(ctx, "short", []byte("v"), shortTTL)
	if _, ok, _ := c.Get(ctx, "short"); !ok {
		t.Error("entry should be alive before ttl")
	}
	expire()
	if _, ok, _ := c.Get(ctx, "short"); ok {
		t.Error("entry should be expired after ttl")
	}
}

func TestCache_GetDoesNotExtend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewCache()

	_ = c.Set(ctx, "k", []byte("v"), 4*shortTTL)
	time.Sleep(2 * shortTTL)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("entry should be alive")
	}
	time.Sleep(3 * shortTTL)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get extended the entry lifetime")
	}
}

func TestCache_ValueIsCopied(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewCache()

	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, time.Minute)
	buf[0] = 'x'

	v, _, _ := c.Get(ctx, "k")
	if string(v) != "abc" {
		t.Errorf("stored value mutated through caller slice: %q", v)
	}
	v[1] = 'y'
	v2, _, _ := c.Get(ctx, "k")
	if string(v2) != "abc" {
		t.Errorf("stored value mutated through returned slice: %q", v2)
	}
}

func TestCache_SetIfAbsent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewCache()

	if !c.SetIfAbsent(ctx, "evt", []byte("1"), shortTTL) {
		t.Fatal("first SetIfAbsent should store")
	}
	if c.SetIfAbsent(ctx, "evt", []byte("2"), shortTTL) {
		t.Fatal("second SetIfAbsent should not store")
	}

	expire()
	if !c.SetIfAbsent(ctx, "evt", []byte("3"), time.Minute) {
		t.Fatal("SetIfAbsent should store over an expired entry")
	}
}

func TestCache_Sweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewCache()

	_ = c.Set(ctx, "short", []byte("1"), shortTTL)
	_ = c.Set(ctx, "long", []byte("2"), time.Hour)
	_ = c.Delete(ctx, "never-set")

	expire()
	n, err := c.Sweep(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			_ = c.Set(ctx, key, []byte("v"), time.Minute)
			_, _, _ = c.Get(ctx, key)
			if i%7 == 0 {
				_ = c.Delete(ctx, key)
			}
			_, _ = c.Sweep(ctx)
		}(i)
	}
	wg.Wait()
}
