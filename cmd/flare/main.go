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
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flarehq/flaredb/config"
	"github.com/flarehq/flaredb/logutil"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "flare",
		Short: "flare runs ad-hoc SQL queries against Parquet and CSV files",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	loadConfig := func() (config.Config, error) {
		if configPath == "" {
			return config.Default(), nil
		}
		return config.Load(configPath)
	}

	root.AddCommand(newExplainCmd(loadConfig))
	root.AddCommand(newRunCmd(loadConfig))
	return root
}

func newLogger(cfg config.Config) *zap.SugaredLogger {
	log, err := logutil.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return logutil.Noop()
	}
	return log
}
