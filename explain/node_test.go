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

package explain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flarehq/flaredb/explain"
)

func samplePlan() *explain.Node {
	scan := explain.New("Scan").WithAttr("table", "orders")
	filter := explain.New("Filter").WithAttr("predicate", "amount>0")
	filter.AddChild(scan)
	sink := explain.New("Sink")
	sink.AddChild(filter)
	return sink
}

func TestNodeTextPrintsSinkFirst(t *testing.T) {
	text := samplePlan().Text()
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.True(t, strings.HasPrefix(lines[0], "Sink"))
	require.Contains(t, lines[1], "Filter")
	require.Contains(t, lines[2], "Scan")
}

func TestNodeJSONRoundTripsStructure(t *testing.T) {
	b, err := samplePlan().JSON()
	require.NoError(t, err)
	require.Contains(t, string(b), `"name": "Sink"`)
	require.Contains(t, string(b), `"table": "orders"`)
}

func TestNodeDOTContainsEveryOperator(t *testing.T) {
	out := samplePlan().DOT()
	require.Contains(t, out, "Sink")
	require.Contains(t, out, "Filter")
	require.Contains(t, out, "Scan")
}
