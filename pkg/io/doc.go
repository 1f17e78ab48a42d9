// Package io reads task files and writes schedules and graphs.
//
// # Task Files
//
// A task file holds the same shape as the HTTP request body, either as JSON
// or YAML:
//
//	{
//	  "tasks": [
//	    {"title": "Design API", "estimatedHours": 8, "dueDate": "2025-07-01"},
//	    {"title": "Implement Backend", "dependencies": ["Design API"]}
//	  ]
//	}
//
// The wrapping object is optional; a bare list of tasks is accepted too:
//
//	- title: Design API
//	- title: Implement Backend
//	  dependencies: [Design API]
//
// Use [ReadTasks] to decode from any io.Reader, or [ImportTasks] to load a
// file through an [afero.Fs], with the format taken from the extension
// (.json, .yaml, .yml).
//
// Decoding never validates the task graph. Duplicate titles, unknown
// dependencies and cycles are reported by [schedule.Resolve].
//
// # Output
//
// [WriteOrder] writes a resolved order in the HTTP response shape:
//
//	{
//	  "recommendedOrder": ["Design API", "Implement Backend"]
//	}
//
// [WriteGraph] and [ExportGraph] write the dependency graph as a node and
// edge list for external tools. Node metadata carries the task payload.
//
// [schedule.Resolve]: github.com/matzehuels/taskorder/pkg/schedule.Resolve
package io
