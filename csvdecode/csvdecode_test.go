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

package csvdecode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flarehq/flaredb/csvdecode"
)

func TestFieldIteratorSimpleRecord(t *testing.T) {
	it := csvdecode.NewFieldIterator(csvdecode.DefaultDialect)
	it.Reset([]byte("a,bb,ccc"), 1)

	var fields []string
	for i := 0; ; i++ {
		start, end, ok := it.Next()
		if !ok {
			break
		}
		s, err := it.String(i)
		require.NoError(t, err)
		require.True(t, end >= start)
		fields = append(fields, s)
	}
	require.Equal(t, []string{"a", "bb", "ccc"}, fields)
}

func TestFieldIteratorQuotedWithEscapedQuoteAndDelimiter(t *testing.T) {
	it := csvdecode.NewFieldIterator(csvdecode.DefaultDialect)
	it.Reset([]byte(`"He said ""hi, there""",plain`), 1)

	_, _, ok := it.Next()
	require.True(t, ok)
	s0, err := it.String(0)
	require.NoError(t, err)
	require.Equal(t, `He said "hi, there"`, s0)

	_, _, ok = it.Next()
	require.True(t, ok)
	s1, err := it.String(1)
	require.NoError(t, err)
	require.Equal(t, "plain", s1)

	_, _, ok = it.Next()
	require.False(t, ok)
}

func TestFieldIteratorTrailingEmptyField(t *testing.T) {
	it := csvdecode.NewFieldIterator(csvdecode.DefaultDialect)
	it.Reset([]byte("a,b,"), 1)

	var fields []string
	for i := 0; ; i++ {
		_, _, ok := it.Next()
		if !ok {
			break
		}
		s, _ := it.String(i)
		fields = append(fields, s)
	}
	require.Equal(t, []string{"a", "b", ""}, fields)
}

func TestFieldIteratorInvalidUTF8(t *testing.T) {
	it := csvdecode.NewFieldIterator(csvdecode.DefaultDialect)
	it.Reset([]byte{0xff, 0xfe}, 3)
	_, _, ok := it.Next()
	require.True(t, ok)
	_, err := it.String(0)
	require.Error(t, err)
	var decodeErr *csvdecode.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, 3, decodeErr.Line)
}

func TestScanRecordHandlesEmbeddedNewlineInQuotes(t *testing.T) {
	buf := []byte("a,\"multi\nline\"\nb,c\n")
	end, next, ok := csvdecode.ScanRecord(buf, 0, csvdecode.DefaultDialect)
	require.True(t, ok)
	require.Equal(t, "a,\"multi\nline\"", string(buf[0:end]))

	end2, _, ok2 := csvdecode.ScanRecord(buf, next, csvdecode.DefaultDialect)
	require.True(t, ok2)
	require.Equal(t, "b,c", string(buf[next:end2]))
}

func TestScanRecordReportsIncompleteQuotedTail(t *testing.T) {
	buf := []byte("a,\"unterminated")
	_, _, ok := csvdecode.ScanRecord(buf, 0, csvdecode.DefaultDialect)
	require.False(t, ok)
}

func TestRecordsSplitsMultipleLines(t *testing.T) {
	buf := []byte("a,b\nc,d\ne,f\n")
	records, consumed := csvdecode.Records(buf, csvdecode.DefaultDialect)
	require.Equal(t, len(buf), consumed)
	require.Len(t, records, 3)
	require.Equal(t, "a,b", string(records[0]))
	require.Equal(t, "e,f", string(records[2]))
}
