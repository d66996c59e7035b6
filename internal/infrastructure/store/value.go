// Package store holds the expiring value container and the shared
// TTL-store adapter it is persisted through.
package store

import "time"

// Value wraps a stored value with its creation time and a TTL in whole
// seconds. Expiry is evaluated on read; nothing sweeps these in the
// background, deletion is the store's responsibility.
type Value[T comparable] struct {
	Val       T         `json:"value"`
	Expired   bool      `json:"expired"`
	Timestamp time.Time `json:"timestamp"`
	TTL       int64     `json:"ttl"`
}

// NewValue creates a wrapper whose window starts now.
func NewValue[T comparable](val T, ttl time.Duration) *Value[T] {
	return &Value[T]{
		Val:       val,
		Timestamp: time.Now(),
		TTL:       int64(ttl.Seconds()),
	}
}

// IsExpired reports whether the value has been explicitly invalidated or
// its window has passed. The exact boundary instant is not yet expired;
// only strictly after it counts.
func (v *Value[T]) IsExpired() bool {
	if v.Expired {
		return true
	}
	expiry := v.Timestamp.Add(time.Duration(v.TTL) * time.Second)
	return time.Now().After(expiry)
}

// IsValid reports whether a usable value is present and unexpired.
func (v *Value[T]) IsValid() bool {
	var zero T
	return v.Val != zero && !v.IsExpired()
}

// Refresh starts a new window from now with the given TTL. The caller
// is responsible for re-persisting the refreshed wrapper.
func (v *Value[T]) Refresh(ttl time.Duration) {
	v.TTL = int64(ttl.Seconds())
	v.Timestamp = time.Now()
	v.Expired = false
}

// Invalidate marks the value expired regardless of its window.
func (v *Value[T]) Invalidate() {
	v.Expired = true
}

// Remaining returns how long the value stays valid from now. Zero or
// negative means already expired.
func (v *Value[T]) Remaining() time.Duration {
	expiry := v.Timestamp.Add(time.Duration(v.TTL) * time.Second)
	return time.Until(expiry)
}
