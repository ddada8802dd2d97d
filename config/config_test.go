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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flare.yaml")
	writeFile(t, path, "workers: 8\nmax_batch_bytes: 32MB\nspill_dir: /tmp/spill\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Workers)
	require.Equal(t, 32*datasize.MB, cfg.MaxBatchBytes)
	require.Equal(t, "/tmp/spill", cfg.SpillDir)
	// Fields absent from the file keep Default's values.
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flare.toml")
	writeFile(t, path, "workers = 8\nlog_level = \"debug\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Workers)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, Default().MaxBatchBytes, cfg.MaxBatchBytes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}
