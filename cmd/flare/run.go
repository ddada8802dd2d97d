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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flarehq/flaredb/config"
	"github.com/flarehq/flaredb/session"
	"github.com/flarehq/flaredb/storage"
)

func newRunCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [table-name]",
		Short: "create an in-memory table and report its row count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			defer log.Sync()

			q, _ := session.NewQuery(cmd.Context(), log)
			defer q.Finish(nil)

			table := storage.NewMemTable(args[0], nil)
			fmt.Fprintf(cmd.OutOrStdout(), "table %q ready, %d rows\n", table.Name, table.RowCount())
			return nil
		},
	}
	return cmd
}
