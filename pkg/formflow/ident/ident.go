// Package ident provides the unique-id source abstraction for formflow.
//
// Production code uses UUID; tests substitute Sequential, Cycling, or Fixed
// so event ids and session tokens are deterministic.
package ident

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator is a source of fresh unique ids.
type Generator interface {
	NewID() string
}

// UUID returns a Generator backed by random UUIDs.
func UUID() Generator {
	return uuidGenerator{}
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.New().String() }

// Sequential returns a Generator that yields "<prefix>-1", "<prefix>-2", ...
func Sequential(prefix string) Generator {
	return &sequentialGenerator{prefix: prefix}
}

type sequentialGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (g *sequentialGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Cycling returns a Generator that yields the given ids in order, wrapping
// around after the last one. Panics if no ids are given.
func Cycling(ids ...string) Generator {
	if len(ids) == 0 {
		panic("ident: Cycling requires at least one id")
	}
	return &cyclingGenerator{ids: ids}
}

type cyclingGenerator struct {
	mu   sync.Mutex
	ids  []string
	next int
}

func (g *cyclingGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.ids[g.next]
	g.next = (g.next + 1) % len(g.ids)
	return id
}

// Fixed returns a Generator that always yields id.
func Fixed(id string) Generator {
	return fixedGenerator{id: id}
}

type fixedGenerator struct {
	id string
}

func (g fixedGenerator) NewID() string { return g.id }
