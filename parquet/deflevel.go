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

package parquet

import "github.com/flarehq/flaredb/array"

// ApplyDefinitionLevels builds a selection vector over a physical value
// buffer of numPhysicalValues real decoded values, plus one trailing "null
// sentinel" row appended after them. level[i] == maxDefLevel means logical
// row i is non-null and consumes the next physical value in order;
// anything lower maps every null logical row onto the same sentinel row,
// so a definition-level stream never forces a per-null physical insertion
// into the decoded value buffer. The returned validity bitmap is indexed
// by physical row (array.Array.IsValid resolves logical->physical before
// consulting it) and marks only the sentinel row invalid.
func ApplyDefinitionLevels(levels []int32, maxDefLevel int32, numPhysicalValues int) (selection []int, validity *array.Bitmap) {
	selection = make([]int, len(levels))
	sentinel := numPhysicalValues
	validity = array.NewBitmapAllTrue(numPhysicalValues + 1)
	validity.Set(sentinel, false)

	physIdx := 0
	for i, lvl := range levels {
		if lvl == maxDefLevel {
			selection[i] = physIdx
			physIdx++
		} else {
			selection[i] = sentinel
		}
	}
	return selection, validity
}
