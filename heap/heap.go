// Package heap implements the VM's object arena: a handle-indexed store for
// heap-allocated data (currently just interned strings). There is no
// automatic sweep; objects are freed explicitly by the VM or left for a
// future collector to reclaim via the mark bit.
package heap

// Object is the payload behind a Heap handle. The CORE only needs String,
// but the type leaves room for future object kinds the way the original's
// HeapData enum does.
type Object struct {
	marked bool
	String string
}

// Heap owns the underlying storage for every Obj value the VM or compiler
// produces. Handles are never reused once issued.
type Heap struct {
	nextHandle int
	objects    map[int]*Object
}

// New returns an empty Heap.
func New() *Heap {
	return &Heap{objects: make(map[int]*Object)}
}

// Allocate interns s as a new String object and returns its handle.
func (h *Heap) Allocate(s string) int {
	handle := h.nextHandle
	h.nextHandle++
	h.objects[handle] = &Object{String: s}
	return handle
}

// Get fetches the object behind handle.
func (h *Heap) Get(handle int) (*Object, bool) {
	obj, ok := h.objects[handle]
	return obj, ok
}

// Free removes the object behind handle. Freeing an unknown handle is a
// no-op.
func (h *Heap) Free(handle int) {
	delete(h.objects, handle)
}

// Mark sets the mark bit on the object behind handle. No sweep is
// implemented in this core; Mark exists so a future collector has
// somewhere to record liveness.
func (h *Heap) Mark(handle int) {
	if obj, ok := h.objects[handle]; ok {
		obj.marked = true
	}
}

// Marked reports the mark bit for handle.
func (h *Heap) Marked(handle int) bool {
	obj, ok := h.objects[handle]
	return ok && obj.marked
}

// String returns the backing text for handle, or "" if handle is unknown.
func (h *Heap) String(handle int) string {
	if obj, ok := h.objects[handle]; ok {
		return obj.String
	}
	return ""
}
