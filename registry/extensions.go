// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package registry

import "sync"

// Extensions is a per-span key/value store in which layers keep their own
// state for a span.  Keys follow the context.Context convention: an
// unexported type owned by the layer, so that layers cannot collide.
// Extensions values are dropped when the span closes.
type Extensions struct {
	lock   sync.RWMutex
	values map[interface{}]interface{}
}

// Get returns the value stored under key, or nil.
func (e *Extensions) Get(key interface{}) interface{} {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return e.values[key]
}

// Set stores a value under key, replacing any previous value.
func (e *Extensions) Set(key, value interface{}) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.values == nil {
		e.values = make(map[interface{}]interface{}, 1)
	}

	e.values[key] = value
}

// Remove deletes the value stored under key.
func (e *Extensions) Remove(key interface{}) {
	e.lock.Lock()
	defer e.lock.Unlock()
	delete(e.values, key)
}

func (e *Extensions) clear() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.values = nil
}
