package handles

import "sync"

// Owned is a native pointer this process is responsible for deleting.
//
// It starts with one owner. Retain adds owners; Release drops one and runs
// the delete function when the count reaches zero. After deletion the
// pointer reads as 0 and further calls are no-ops.
type Owned struct {
	mu     sync.Mutex
	ptr    uintptr
	refs   int
	delete func(uintptr)
}

// Own wraps ptr. It returns nil when ptr is 0.
func Own(ptr uintptr, del func(uintptr)) *Owned {
	if ptr == 0 {
		return nil
	}
	return &Owned{ptr: ptr, refs: 1, delete: del}
}

// Ptr returns the pointer, or 0 once deleted. Safe on a nil receiver.
func (h *Owned) Ptr() uintptr {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ptr
}

// Retain adds an owner. It fails once the pointer has been deleted.
func (h *Owned) Retain() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ptr == 0 {
		return false
	}
	h.refs++
	return true
}

// Release drops an owner and reports whether this call deleted the pointer.
func (h *Owned) Release() bool {
	ptr := h.drop()
	if ptr == 0 {
		return false
	}
	if h.delete != nil {
		h.delete(ptr)
	}
	return true
}

// drop removes an owner. When it was the last one the pointer is tombstoned
// and returned so the caller can delete it; otherwise drop returns 0.
func (h *Owned) drop() uintptr {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ptr == 0 {
		return 0
	}
	h.refs--
	if h.refs > 0 {
		return 0
	}
	ptr := h.ptr
	h.ptr = 0
	return ptr
}

// Refs returns the current owner count.
func (h *Owned) Refs() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refs
}
