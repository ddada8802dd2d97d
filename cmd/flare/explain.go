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

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/flarehq/flaredb/config"
	"github.com/flarehq/flaredb/explain"
)

func newExplainCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "explain [file]",
		Short: "show the plan tree for a query plan placeholder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			plan := placeholderPlan(args[0])
			switch format {
			case "json":
				b, err := plan.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
			case "dot":
				fmt.Fprintln(cmd.OutOrStdout(), plan.DOT())
			case "table":
				renderTable(cmd, plan)
			default:
				fmt.Fprint(cmd.OutOrStdout(), plan.Text())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "one of text, json, dot, table")
	return cmd
}

// placeholderPlan stands in for the real planner output until a SQL
// front-end is wired up; cmd/flare's job is to drive and render an
// already-built plan tree, not to parse SQL.
func placeholderPlan(source string) *explain.Node {
	scan := explain.New("Scan").WithAttr("source", source)
	sink := explain.New("Sink")
	sink.AddChild(scan)
	return sink
}

func renderTable(cmd *cobra.Command, n *explain.Node) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Operator", "Attrs"})
	var walk func(*explain.Node, int)
	walk = func(node *explain.Node, depth int) {
		t.AppendRow(table.Row{fmt.Sprintf("%*s%s", depth*2, "", node.Name), fmt.Sprint(node.Attrs)})
		for _, c := range node.Children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	t.Render()
}
