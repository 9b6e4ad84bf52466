// Package mcp exposes the course-building workflow over the Model Context
// Protocol, so MCP clients can drive a session: ask the next question,
// submit answers, generate artifacts, and export the result.
//
// Each session is one workflow engine, registered under a generated id.
// Clients pass the id to every tool call.
package mcp

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/didactlabs/didact/engine"
)

// Registry holds the active workflow sessions. It is safe for concurrent
// use; each individual engine still expects one caller at a time, which
// MCP's request/response model provides per session.
type Registry struct {
	newEngine func() *engine.Engine

	mu       sync.RWMutex
	sessions map[string]*engine.Engine
}

// NewRegistry creates a session registry. newEngine builds a fresh engine
// for each started session.
func NewRegistry(newEngine func() *engine.Engine) *Registry {
	return &Registry{
		newEngine: newEngine,
		sessions:  make(map[string]*engine.Engine),
	}
}

// Create starts a new session and returns its id.
func (r *Registry) Create() (string, *engine.Engine) {
	id := uuid.NewString()
	e := r.newEngine()

	r.mu.Lock()
	r.sessions[id] = e
	r.mu.Unlock()
	return id, e
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*engine.Engine, error) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("mcp: unknown session %q", id)
	}
	return e, nil
}

// Delete ends a session and discards its state.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
