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

// ScanRecord finds the end of the next logical CSV record starting at pos
// within buf, honoring quoted fields that embed a literal newline. It
// returns the record's [pos, end) span (excluding the terminating newline)
// and the position to resume scanning from. ok is false if buf ends mid
// quoted field, signaling the caller needs more bytes before a complete
// record is available (the streaming case: a FileSource chunk boundary
// landed inside a quoted value).
func ScanRecord(buf []byte, pos int, d Dialect) (end, next int, ok bool) {
	inQuotes := false
	i := pos
	for i < len(buf) {
		c := buf[i]
		switch {
		case inQuotes:
			if c == d.Escape && i+1 < len(buf) && buf[i+1] == d.Quote {
				i += 2
				continue
			}
			if c == d.Quote {
				inQuotes = false
			}
			i++
		case c == d.Quote:
			inQuotes = true
			i++
		case c == '\n':
			end = i
			if end > pos && buf[end-1] == '\r' {
				end--
			}
			return end, i + 1, true
		default:
			i++
		}
	}
	if inQuotes {
		return 0, pos, false
	}
	if i == pos {
		return pos, pos, false // no more records
	}
	return i, i, true // final record with no trailing newline
}

// Records splits buf into every complete record it contains, stopping (and
// reporting the byte offset where it stopped) if the final record is
// incomplete (unterminated quote).
func Records(buf []byte, d Dialect) (records [][]byte, consumed int) {
	pos := 0
	for pos < len(buf) {
		end, next, ok := ScanRecord(buf, pos, d)
		if !ok {
			break
		}
		if end > pos || next > pos {
			records = append(records, buf[pos:end])
		}
		if next == pos {
			break
		}
		pos = next
	}
	return records, pos
}
