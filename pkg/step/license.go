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

package step

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/walteh/tidyrc/pkg/checksum"
	"github.com/walteh/tidyrc/pkg/config"
	"github.com/walteh/tidyrc/pkg/format"
	"github.com/walteh/tidyrc/pkg/layout"
	"github.com/walteh/tidyrc/pkg/runctx"
	"gitlab.com/tozd/go/errors"
)

const (
	LicenseHeaderName = "license-header"

	DefaultLicenseDelimiter = "^package "
)

// 📜 LicenseHeader replaces everything above the first line matching
// Delimiter with the header. Exactly one of Header and HeaderFile is set.
type LicenseHeader struct {
	Header     *string
	HeaderFile *HeaderFile
	Delimiter  string

	delimiter *regexp.Regexp
}

// HeaderFile is a header kept in its own file, located relative to the base directory
type HeaderFile struct {
	Path string
}

func (f *HeaderFile) Fingerprint(h *checksum.Hasher) {
	h.Path("path", f.Path)
}

func newLicenseHeader(cfg config.StepConfig) (Step, error) {
	if err := onlyAttributes(cfg, "header", "header_file", "delimiter"); err != nil {
		return nil, err
	}
	s := &LicenseHeader{Header: cfg.Header, Delimiter: DefaultLicenseDelimiter}
	if cfg.HeaderFile != nil {
		s.HeaderFile = &HeaderFile{Path: *cfg.HeaderFile}
	}
	if cfg.Delimiter != nil {
		s.Delimiter = *cfg.Delimiter
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LicenseHeader) validate() error {
	switch {
	case s.Header != nil && s.HeaderFile != nil:
		return errors.New("header and header_file are mutually exclusive")
	case s.Header == nil && s.HeaderFile == nil:
		return errors.New("one of header or header_file is required")
	}
	re, err := regexp.Compile("(?m)" + s.Delimiter)
	if err != nil {
		return errors.Errorf("delimiter: %w", err)
	}
	s.delimiter = re
	return nil
}

func (s *LicenseHeader) Name() string { return LicenseHeaderName }

func (s *LicenseHeader) Fingerprint(h *checksum.Hasher) {
	h.String("type", LicenseHeaderName)
	h.OptionalString("header", s.Header)
	h.Group("header_file", s.HeaderFile)
	h.String("delimiter", s.Delimiter)
}

func (s *LicenseHeader) Prepare(ctx context.Context, rc *runctx.Context) ([]format.Stage, error) {
	if s.delimiter == nil {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}

	header, err := s.headerText(rc.Layout())
	if err != nil {
		return nil, err
	}

	return []format.Stage{newStage(s.Name(), func(ctx context.Context, content, file string) (string, error) {
		loc := s.delimiter.FindStringIndex(content)
		if loc == nil {
			return "", format.NewLintError(1, "missing-delimiter", fmt.Sprintf("no line matches %q", s.Delimiter))
		}
		return header + content[loc[0]:], nil
	})}, nil
}

func (s *LicenseHeader) headerText(l *layout.Layout) (string, error) {
	text := ""
	if s.Header != nil {
		text = *s.Header
	} else {
		p, ok := l.Find(s.HeaderFile.Path)
		if !ok {
			return "", errors.Errorf("header_file %q: %w", s.HeaderFile.Path, layout.ErrNotFound)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return "", errors.Errorf("reading header_file: %w", err)
		}
		text = string(data)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text, nil
}
