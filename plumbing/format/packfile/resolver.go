package packfile

import (
	"crypto"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/hash"
)

// Resolver assembles the full content of every object carried by a
// packfile, resolving ref-deltas against their base as soon as that
// base becomes available, regardless of the order in which the pack
// stream presents them.
//
// Pending deltas are kept in a LinkedHashMap keyed by base hash, so
// Unresolved reports them in first-arrival order rather than random map
// order.
type Resolver struct {
	content map[plumbing.Hash][]byte
	typ     map[plumbing.Hash]plumbing.ObjectType
	pending *linkedhashmap.Map
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{
		content: make(map[plumbing.Hash][]byte),
		typ:     make(map[plumbing.Hash]plumbing.ObjectType),
		pending: linkedhashmap.New(),
	}
}

// AddObject registers a fully-resolved (non-delta) object, resolving
// any deltas that were waiting on it, and returns its computed hash.
func (r *Resolver) AddObject(t plumbing.ObjectType, content []byte) plumbing.Hash {
	h := hash.New(crypto.SHA1)
	hash.WriteHeader(h, t.String(), int64(len(content)))
	h.Write(content) //nolint:errcheck

	var id plumbing.Hash
	copy(id[:], h.Sum(nil))

	r.content[id] = content
	r.typ[id] = t
	r.resolveWaitingOn(id)

	return id
}

// AddDelta registers a ref-delta whose base is base. If base is already
// resolved the delta is applied immediately and (hash, true) is
// returned; otherwise the delta is queued and (zero hash, false) is
// returned until a later AddObject/AddDelta call resolves its base.
func (r *Resolver) AddDelta(base plumbing.Hash, delta []byte) (plumbing.Hash, bool, error) {
	content, ok := r.content[base]
	if !ok {
		r.queue(base, delta)
		return plumbing.ZeroHash, false, nil
	}

	target, err := PatchDelta(content, delta)
	if err != nil {
		return plumbing.ZeroHash, false, err
	}

	return r.AddObject(r.typ[base], target), true, nil
}

func (r *Resolver) queue(base plumbing.Hash, delta []byte) {
	key := base.String()

	var list [][]byte
	if v, found := r.pending.Get(key); found {
		list = v.([][]byte)
	}
	r.pending.Put(key, append(list, delta))
}

func (r *Resolver) resolveWaitingOn(base plumbing.Hash) {
	key := base.String()

	v, found := r.pending.Get(key)
	if !found {
		return
	}
	r.pending.Remove(key)

	content := r.content[base]
	t := r.typ[base]

	for _, delta := range v.([][]byte) {
		target, err := PatchDelta(content, delta)
		if err != nil {
			continue
		}
		// AddObject recurses into resolveWaitingOn, so chains of
		// deltas-on-deltas resolve transitively.
		r.AddObject(t, target)
	}
}

// Get returns the resolved content and type of hash h, if known.
func (r *Resolver) Get(h plumbing.Hash) (content []byte, t plumbing.ObjectType, ok bool) {
	content, ok = r.content[h]
	return content, r.typ[h], ok
}

// ResolvedObject is one fully-assembled object known to a Resolver.
type ResolvedObject struct {
	Hash    plumbing.Hash
	Type    plumbing.ObjectType
	Content []byte
}

// Objects returns every object the Resolver has fully assembled so far,
// in no particular order.
func (r *Resolver) Objects() []ResolvedObject {
	out := make([]ResolvedObject, 0, len(r.content))
	for h, content := range r.content {
		out = append(out, ResolvedObject{Hash: h, Type: r.typ[h], Content: content})
	}
	return out
}

// Unresolved returns the base hashes that still have one or more
// pending deltas queued against them, in the order their first delta
// arrived.
func (r *Resolver) Unresolved() []string {
	keys := r.pending.Keys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.(string))
	}
	return out
}
