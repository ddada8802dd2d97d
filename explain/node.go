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

// Package explain renders a plan tree as nested text, JSON, or a DOT graph,
// all walking the same leaves-to-root structure so the sink operator always
// prints or appears first.
package explain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/emicklei/dot"
)

// Node is one operator in an Explain plan tree: a name, its key=value
// attributes, and its children in the same order the plan builder produced
// them.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
}

func New(name string) *Node {
	return &Node{Name: name, Attrs: map[string]string{}}
}

func (n *Node) WithAttr(key, value string) *Node {
	n.Attrs[key] = value
	return n
}

func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return n
}

func (n *Node) sortedAttrKeys() []string {
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Text renders the nested, indented text form: operator name, key=value
// entries, then children at one deeper indent level.
func (n *Node) Text() string {
	var b strings.Builder
	n.writeText(&b, 0)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Name)
	for _, k := range n.sortedAttrKeys() {
		fmt.Fprintf(b, " %s=%s", k, n.Attrs[k])
	}
	b.WriteByte('\n')
	for _, c := range n.Children {
		c.writeText(b, depth+1)
	}
}

// jsonNode mirrors the {entry, children[]} JSON shape; entry packs the
// name and attrs together since JSON has no notion of ordered key=value
// pairs distinct from a map.
type jsonNode struct {
	Entry    jsonEntry   `json:"entry"`
	Children []*jsonNode `json:"children"`
}

type jsonEntry struct {
	Name  string            `json:"name"`
	Attrs map[string]string `json:"attrs"`
}

func (n *Node) toJSONNode() *jsonNode {
	children := make([]*jsonNode, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.toJSONNode()
	}
	return &jsonNode{Entry: jsonEntry{Name: n.Name, Attrs: n.Attrs}, Children: children}
}

// JSON renders the {entry, children[]} serialization.
func (n *Node) JSON() ([]byte, error) {
	return json.MarshalIndent(n.toJSONNode(), "", "  ")
}

// DOT renders the plan tree as a Graphviz graph, useful for external
// tooling outside the CLI's nested-text/JSON scope.
func (n *Node) DOT() string {
	g := dot.NewGraph(dot.Directed)
	n.addToGraph(g, nil)
	return g.String()
}

func (n *Node) addToGraph(g *dot.Graph, parent *dot.Node) {
	label := n.Name
	for _, k := range n.sortedAttrKeys() {
		label += fmt.Sprintf("\n%s=%s", k, n.Attrs[k])
	}
	node := g.Node(label)
	if parent != nil {
		g.Edge(*parent, node)
	}
	for _, c := range n.Children {
		c.addToGraph(g, &node)
	}
}
