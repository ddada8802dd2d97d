// Copyright 2024 The FlareDB Authors
// This file is part of FlareDB.
//
// FlareDB is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FlareDB is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with FlareDB. If not, see <http://www.gnu.org/licenses/>.

package csvdecode

import "unicode/utf8"

type fieldRange struct {
	start, end int
	quoted     bool
}

// FieldIterator splits one CSV record buffer into field byte ranges. Next
// never allocates; String is the only method that may allocate, and only
// when the field was quoted (to unescape doubled quote characters) or when
// validating UTF-8.
type FieldIterator struct {
	dialect Dialect
	buf     []byte
	pos     int
	line    int
	ranges  []fieldRange
}

func NewFieldIterator(dialect Dialect) *FieldIterator {
	return &FieldIterator{dialect: dialect}
}

// Reset points the iterator at a new record buffer (one logical CSV record,
// with any quoted embedded newlines already included by the caller's record
// scanner).
func (it *FieldIterator) Reset(record []byte, line int) {
	it.buf = record
	it.pos = 0
	it.line = line
	it.ranges = it.ranges[:0]
}

// Next yields the next field's byte range [start, end) within the record
// buffer passed to Reset. For a quoted field, start/end bound the content
// between the quotes, with any doubled-quote escape sequences still intact;
// call String to unescape and validate. ok is false once every field in the
// record has been consumed.
func (it *FieldIterator) Next() (start, end int, ok bool) {
	if it.pos > len(it.buf) {
		return 0, 0, false
	}
	d := it.dialect
	if it.pos < len(it.buf) && it.buf[it.pos] == d.Quote {
		start = it.pos + 1
		i := start
		for i < len(it.buf) {
			if it.buf[i] == d.Escape && i+1 < len(it.buf) && it.buf[i+1] == d.Quote {
				i += 2
				continue
			}
			if it.buf[i] == d.Quote {
				break
			}
			i++
		}
		end = i
		it.ranges = append(it.ranges, fieldRange{start: start, end: end, quoted: true})
		// skip closing quote and the following delimiter, if present; a
		// quoted last field leaves pos past the end so the next call stops
		i++
		if i < len(it.buf) && it.buf[i] == d.Delimiter {
			i++
		} else if i >= len(it.buf) {
			i = len(it.buf) + 1
		}
		it.pos = i
		return start, end, true
	}

	start = it.pos
	i := start
	for i < len(it.buf) && it.buf[i] != d.Delimiter {
		i++
	}
	end = i
	it.ranges = append(it.ranges, fieldRange{start: start, end: end, quoted: false})
	if i < len(it.buf) {
		i++ // skip delimiter
	} else {
		i++ // sentinel: pos > len(buf) signals "done", even for a trailing empty field
	}
	it.pos = i
	return start, end, true
}

// String returns field i (0-based, in call order since the last Reset) as a
// validated, unescaped string. It is the one point at which UTF-8 is
// checked and quote-escapes are resolved.
func (it *FieldIterator) String(i int) (string, error) {
	r := it.ranges[i]
	raw := it.buf[r.start:r.end]
	if !r.quoted {
		if !utf8.Valid(raw) {
			return "", &DecodeError{Line: it.line, FieldIdx: i, Reason: "invalid UTF-8"}
		}
		return string(raw), nil
	}
	out := make([]byte, 0, len(raw))
	for j := 0; j < len(raw); j++ {
		if raw[j] == it.dialect.Escape && j+1 < len(raw) && raw[j+1] == it.dialect.Quote {
			out = append(out, it.dialect.Quote)
			j++
			continue
		}
		out = append(out, raw[j])
	}
	if !utf8.Valid(out) {
		return "", &DecodeError{Line: it.line, FieldIdx: i, Reason: "invalid UTF-8"}
	}
	return string(out), nil
}

func (it *FieldIterator) NumFields() int { return len(it.ranges) }
