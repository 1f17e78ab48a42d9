package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/matzehuels/taskorder/pkg/dag"
)

type orderResponse struct {
	RecommendedOrder []string `json:"recommendedOrder"`
}

type graph struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID   string       `json:"id"`
	Meta dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteOrder writes order as an indented {"recommendedOrder": [...]} object.
// A nil order is written as an empty array.
func WriteOrder(w io.Writer, order []string) error {
	if order == nil {
		order = []string{}
	}
	return encode(w, orderResponse{RecommendedOrder: order})
}

// WriteGraph encodes the task graph as a node and edge list. Nodes and edges
// keep insertion order; parallel edges are written once per occurrence.
func WriteGraph(g *dag.DAG, w io.Writer) error {
	out := graph{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, node{ID: n.ID, Meta: n.Meta})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}
	return encode(w, out)
}

// ExportGraph writes the task graph to path on fsys.
func ExportGraph(fsys afero.Fs, g *dag.DAG, path string) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
