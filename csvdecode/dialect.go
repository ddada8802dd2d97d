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

// Package csvdecode splits CSV record buffers into field byte ranges
// without allocating, mirroring the page-reader/value-decoder split of
// package parquet.
package csvdecode

// Dialect configures the three bytes a FieldIterator needs to split one
// record's fields: the field delimiter, the quote character, and the
// escape character used inside a quoted field to represent a literal quote.
type Dialect struct {
	Delimiter byte
	Quote     byte
	Escape    byte
}

// DefaultDialect is comma-delimited, double-quote-quoted, with the quote
// itself doubled to escape (RFC 4180).
var DefaultDialect = Dialect{Delimiter: ',', Quote: '"', Escape: '"'}

// DecodeError reports a malformed field, carrying enough context to match
// an error message to its source position.
type DecodeError struct {
	Line     int
	FieldIdx int
	Reason   string
}

func (e *DecodeError) Error() string {
	return e.Reason
}
