package notify

import "sync"

// Registry remembers which conversation opened each ticket so status updates
// return to the same thread. It is in-memory: after a restart the bot falls
// back to the broadcast conversation.
type Registry struct {
	mu        sync.RWMutex
	byTicket  map[string]ConversationRef
	broadcast ConversationRef
}

// NewRegistry constructs the registry with an optional broadcast fallback.
func NewRegistry(broadcast ConversationRef) *Registry {
	return &Registry{
		byTicket:  make(map[string]ConversationRef),
		broadcast: broadcast,
	}
}

// Register binds a ticket key to the conversation that created it.
func (r *Registry) Register(key string, ref ConversationRef) {
	if key == "" || ref.IsZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTicket[key] = ref
}

// Lookup returns the conversation bound to the ticket key.
func (r *Registry) Lookup(key string) (ConversationRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.byTicket[key]
	return ref, ok
}

// Resolve returns the bound conversation, or the broadcast fallback. The
// zero ref means there is nowhere to send.
func (r *Registry) Resolve(key string) ConversationRef {
	if ref, ok := r.Lookup(key); ok {
		return ref
	}
	return r.broadcast
}

// Forget drops the binding once a ticket reaches a terminal state.
func (r *Registry) Forget(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byTicket, key)
}
