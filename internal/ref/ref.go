// Package ref provides a typed lazy reference to a database entity: a value
// that holds either the foreign-key id of the referenced row or, after an
// explicit resolve, the row itself. Holding a Ref instead of an eagerly
// joined struct lets API payloads carry plain ids and defers the extra
// round trip until a handler actually needs the nested entity.
package ref

import (
	"context"
	"encoding/json"
)

// Key is the set of types usable as surrogate keys.
type Key interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~string
}

// Keyed is implemented by entities that expose their own primary key.
type Keyed[K Key] interface {
	Key() K
}

// Loader turns an id into the entity it identifies. It is injected at the
// call site (usually a service method like JobService.ByID) so the ref
// itself stays storage-agnostic. A loader must return an error wrapping
// the caller's not-found sentinel when no row exists; it must never return
// a zero entity in that case.
type Loader[K Key, T Keyed[K]] func(ctx context.Context, id K) (T, error)

// Ref is either an identifier or a resolved entity, never both.
// The zero value is an identifier ref for the zero key.
type Ref[K Key, T Keyed[K]] struct {
	id     K
	entity *T
}

// FromID builds an unresolved reference from a raw id column.
func FromID[K Key, T Keyed[K]](id K) Ref[K, T] {
	return Ref[K, T]{id: id}
}

// FromEntity builds an already-resolved reference, used when the entity was
// just inserted or fetched and another lookup would be redundant.
func FromEntity[K Key, T Keyed[K]](entity T) Ref[K, T] {
	return Ref[K, T]{id: entity.Key(), entity: &entity}
}

// ID returns the referenced key without I/O. For a resolved ref it comes
// from the entity itself.
func (r Ref[K, T]) ID() K {
	if r.entity != nil {
		return (*r.entity).Key()
	}
	return r.id
}

// Resolved reports whether the entity has been materialized.
func (r Ref[K, T]) Resolved() bool {
	return r.entity != nil
}

// Entity returns the resolved entity, or false if the ref is still an
// identifier.
func (r Ref[K, T]) Entity() (T, bool) {
	if r.entity == nil {
		var zero T
		return zero, false
	}
	return *r.entity, true
}

// Resolve returns a resolved copy of the reference. If the receiver is
// already resolved it is returned as-is and the loader is not invoked.
// On loader failure the receiver is returned unchanged, still in
// identifier state, so the caller may retry. Resolve never mutates the
// receiver; callers that want memoization reassign:
//
//	p.Job, err = p.Job.Resolve(ctx, jobs.ByID)
func (r Ref[K, T]) Resolve(ctx context.Context, load Loader[K, T]) (Ref[K, T], error) {
	if r.entity != nil {
		return r, nil
	}
	entity, err := load(ctx, r.id)
	if err != nil {
		return r, err
	}
	return Ref[K, T]{id: r.id, entity: &entity}, nil
}

// MarshalJSON encodes the reference as its bare id.
func (r Ref[K, T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID())
}

// UnmarshalJSON decodes a bare id into an unresolved reference.
func (r *Ref[K, T]) UnmarshalJSON(data []byte) error {
	var id K
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	r.id = id
	r.entity = nil
	return nil
}
