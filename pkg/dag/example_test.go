package dag_test

import (
	"fmt"

	"github.com/matzehuels/taskorder/pkg/dag"
)

func ExampleDAG_basic() {
	// Design API → Implement Backend → Deploy
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "Design API"})
	_ = g.AddNode(dag.Node{ID: "Implement Backend"})
	_ = g.AddNode(dag.Node{ID: "Deploy"})
	_ = g.AddEdge(dag.Edge{From: "Design API", To: "Implement Backend"})
	_ = g.AddEdge(dag.Edge{From: "Implement Backend", To: "Deploy"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Order:", g.NodeIDs())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Order: [Design API Implement Backend Deploy]
}

func ExampleDAG_traversal() {
	// Release waits on both docs and tests
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "docs"})
	_ = g.AddNode(dag.Node{ID: "tests"})
	_ = g.AddNode(dag.Node{ID: "release"})
	_ = g.AddEdge(dag.Edge{From: "docs", To: "release"})
	_ = g.AddEdge(dag.Edge{From: "tests", To: "release"})

	fmt.Println("Prerequisites of release:", g.Parents("release"))
	fmt.Println("Dependents of docs:", g.Children("docs"))
	fmt.Println("In-degree of release:", g.InDegree("release"))
	// Output:
	// Prerequisites of release: [docs tests]
	// Dependents of docs: [release]
	// In-degree of release: 2
}

func ExampleDAG_Sources() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "X"})
	_ = g.AddNode(dag.Node{ID: "Y"})
	_ = g.AddNode(dag.Node{ID: "Z"})
	_ = g.AddEdge(dag.Edge{From: "X", To: "Z"})
	_ = g.AddEdge(dag.Edge{From: "Y", To: "Z"})

	for _, n := range g.Sources() {
		fmt.Println(n.ID)
	}
	// Output:
	// X
	// Y
}

func ExampleDAG_metadata() {
	g := dag.New(dag.Metadata{"project": "apollo"})
	_ = g.AddNode(dag.Node{
		ID: "Design API",
		Meta: dag.Metadata{
			"estimated_hours": 8,
			"due_date":        "2025-01-10",
		},
	})

	node, _ := g.Node("Design API")
	fmt.Println("Task:", node.ID)
	fmt.Println("Hours:", node.Meta["estimated_hours"])
	fmt.Println("Project:", g.Meta()["project"])
	// Output:
	// Task: Design API
	// Hours: 8
	// Project: apollo
}
