// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checksum

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"path/filepath"
	"reflect"
	"sort"
)

// 📏 DigestLength is the number of hex characters in a fingerprint
const DigestLength = 32

// item tags, one byte each, written before every length-prefixed value
const (
	tagString = 's'
	tagPath   = 'p'
	tagBytes  = 'b'
	tagInt    = 'i'
	tagBool   = 't'
	tagKey    = 'k'
	tagAbsent = 'n'
	tagList   = 'l'
	tagMap    = 'm'
	tagBegin  = 'g'
	tagEnd    = 'e'
	tagDigest = 'd'
)

// 🔑 Fingerprintable is implemented by every configuration value that takes part
// in a fingerprint. Implementations write their fields to the hasher in a fixed order.
type Fingerprintable interface {
	Fingerprint(h *Hasher)
}

// 🧮 Hasher accumulates tagged, length-prefixed values into a SHA-256 state
type Hasher struct {
	h   hash.Hash
	hdr [9]byte
}

// 🏭 New creates an empty hasher
func New() *Hasher {
	return &Hasher{h: sha256.New()}
}

func (h *Hasher) item(tag byte, data []byte) {
	h.hdr[0] = tag
	binary.BigEndian.PutUint64(h.hdr[1:], uint64(len(data)))
	h.h.Write(h.hdr[:])
	h.h.Write(data)
}

// count writes a header whose length field carries n instead of a byte length
func (h *Hasher) count(tag byte, n int) {
	h.hdr[0] = tag
	binary.BigEndian.PutUint64(h.hdr[1:], uint64(n))
	h.h.Write(h.hdr[:])
}

func (h *Hasher) key(name string) {
	h.item(tagKey, []byte(name))
}

func (h *Hasher) absent() {
	h.item(tagAbsent, nil)
}

// String writes a named string field
func (h *Hasher) String(name, v string) {
	h.key(name)
	h.item(tagString, []byte(v))
}

// OptionalString writes a named string field; nil is recorded as absent,
// which is distinct from a pointer to the empty string.
func (h *Hasher) OptionalString(name string, v *string) {
	h.key(name)
	if v == nil {
		h.absent()
		return
	}
	h.item(tagString, []byte(*v))
}

// Path writes a named path field in slash form
func (h *Hasher) Path(name, p string) {
	h.key(name)
	h.item(tagPath, []byte(filepath.ToSlash(p)))
}

// Bytes writes a named byte field; nil is absent, an empty slice is not
func (h *Hasher) Bytes(name string, v []byte) {
	h.key(name)
	if v == nil {
		h.absent()
		return
	}
	h.item(tagBytes, v)
}

// Int writes a named integer field
func (h *Hasher) Int(name string, v int64) {
	h.key(name)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	h.item(tagInt, buf[:])
}

// Bool writes a named boolean field
func (h *Hasher) Bool(name string, v bool) {
	h.key(name)
	b := byte(0)
	if v {
		b = 1
	}
	h.item(tagBool, []byte{b})
}

// Strings writes an ordered list; reordering the elements changes the digest
func (h *Hasher) Strings(name string, v []string) {
	h.key(name)
	if v == nil {
		h.absent()
		return
	}
	h.count(tagList, len(v))
	for _, s := range v {
		h.item(tagString, []byte(s))
	}
}

// Paths writes an ordered list of paths in slash form
func (h *Hasher) Paths(name string, v []string) {
	h.key(name)
	if v == nil {
		h.absent()
		return
	}
	h.count(tagList, len(v))
	for _, p := range v {
		h.item(tagPath, []byte(filepath.ToSlash(p)))
	}
}

// StringMap writes a map with its entries sorted by key
func (h *Hasher) StringMap(name string, v map[string]string) {
	h.key(name)
	if v == nil {
		h.absent()
		return
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h.count(tagMap, len(keys))
	for _, k := range keys {
		h.item(tagString, []byte(k))
		h.item(tagString, []byte(v[k]))
	}
}

// Group writes a nested group of fields between begin and end markers.
// A nil group (including a typed nil) is recorded as absent, so a present
// but empty group and a missing one produce different digests.
func (h *Hasher) Group(name string, g Fingerprintable) {
	h.key(name)
	if isNil(g) {
		h.absent()
		return
	}
	h.item(tagBegin, nil)
	g.Fingerprint(h)
	h.item(tagEnd, nil)
}

// Nested writes the digest of another value rather than its fields
func (h *Hasher) Nested(name string, v Fingerprintable) {
	h.key(name)
	if isNil(v) {
		h.absent()
		return
	}
	h.item(tagDigest, []byte(Of(v)))
}

// Sum returns the fingerprint of everything written so far
func (h *Hasher) Sum() string {
	return hex.EncodeToString(h.h.Sum(nil)[:DigestLength/2])
}

// 🎯 Of returns the fingerprint of a single value
func Of(v Fingerprintable) string {
	h := New()
	if isNil(v) {
		h.absent()
	} else {
		v.Fingerprint(h)
	}
	return h.Sum()
}

// 🎯 OfString returns the fingerprint of a lone string, used for paths and ids
func OfString(s string) string {
	h := New()
	h.item(tagString, []byte(s))
	return h.Sum()
}

// 🔗 OfSequence returns the fingerprint of an ordered sequence of values.
// Each element contributes its own digest, in order.
func OfSequence[T Fingerprintable](items []T) string {
	h := New()
	h.count(tagList, len(items))
	for _, it := range items {
		h.item(tagDigest, []byte(Of(it)))
	}
	return h.Sum()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
