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

package format

import (
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is used when no encoding is configured
const DefaultEncoding = "UTF-8"

// 🔤 Charset decodes file bytes to text and back
type Charset struct {
	name string
	enc  encoding.Encoding // nil means UTF-8, passed through untouched
}

// LookupCharset resolves an IANA charset name such as "UTF-8" or "ISO-8859-1"
func LookupCharset(name string) (*Charset, error) {
	if name == "" {
		name = DefaultEncoding
	}
	switch strings.ToUpper(strings.ReplaceAll(name, "_", "-")) {
	case "UTF-8", "UTF8":
		return &Charset{name: DefaultEncoding}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, errors.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, errors.Errorf("unsupported encoding %q", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}
	return &Charset{name: canonical, enc: enc}, nil
}

// Name returns the canonical charset name
func (c *Charset) Name() string {
	return c.name
}

// Decode converts raw file bytes to text
func (c *Charset) Decode(raw []byte) (string, error) {
	if c.enc == nil {
		return string(raw), nil
	}
	out, err := c.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.Errorf("decoding %s: %w", c.name, err)
	}
	return string(out), nil
}

// Encode converts text back to file bytes
func (c *Charset) Encode(text string) ([]byte, error) {
	if c.enc == nil {
		return []byte(text), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, errors.Errorf("encoding %s: %w", c.name, err)
	}
	return out, nil
}
