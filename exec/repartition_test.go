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

package exec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/exec"
)

func pullNow(t *testing.T, s *exec.RepartitionState, c int) exec.PullResult {
	t.Helper()
	return s.Pull(c, exec.NewWaker(func() {}))
}

// TestScenarioRoundRobinRepartition runs the literal round-robin
// repartition scenario: 2 producer partitions push A1, A2 from one and B1,
// B2 from another into 3 consumer partitions. Every pushed batch must
// surface exactly once, and every consumer must observe exhaustion only
// after both producers finish.
func TestScenarioRoundRobinRepartition(t *testing.T) {
	s := exec.NewRepartitionState(2, 3)

	a1 := &array.Batch{}
	a2 := &array.Batch{}
	b1 := &array.Batch{}
	b2 := &array.Batch{}

	// Interleaved as the two producer partitions would actually push.
	s.Push(a1)
	s.Push(b1)
	s.Push(a2)
	s.Push(b2)

	// Round-robin over 3 consumers assigns queue indices 0, 1, 2, 0.
	require.Equal(t, a1, pullNow(t, s, 0).Batch)
	require.Equal(t, b1, pullNow(t, s, 1).Batch)
	require.Equal(t, a2, pullNow(t, s, 2).Batch)
	require.Equal(t, b2, pullNow(t, s, 0).Batch)

	// Neither producer has finished, so the now-empty queues must report
	// pending rather than exhausted.
	require.Equal(t, exec.PullPending, pullNow(t, s, 0).Kind)
	require.Equal(t, exec.PullPending, pullNow(t, s, 1).Kind)
	require.Equal(t, exec.PullPending, pullNow(t, s, 2).Kind)

	s.FinishProducer()
	require.Equal(t, exec.PullPending, pullNow(t, s, 0).Kind, "one producer still outstanding")

	s.FinishProducer()
	require.Equal(t, exec.PullExhausted, pullNow(t, s, 0).Kind)
	require.Equal(t, exec.PullExhausted, pullNow(t, s, 1).Kind)
	require.Equal(t, exec.PullExhausted, pullNow(t, s, 2).Kind)
}
