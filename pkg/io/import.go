package io

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/taskorder/pkg/errors"
	"github.com/matzehuels/taskorder/pkg/schedule"
)

// Format identifies a task file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// taskFile is the request-shaped wrapper around a task list.
type taskFile struct {
	Tasks []schedule.Task `json:"tasks" yaml:"tasks"`
}

// FormatFromPath picks the task file format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported task file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// ReadTasks decodes a task list from r. Both the {"tasks": [...]} wrapper and
// a bare list are accepted. An empty document yields an empty list.
func ReadTasks(r io.Reader, format Format) ([]schedule.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read tasks")
	}

	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported task format %q", format)
}

func decodeJSON(data []byte) ([]schedule.Task, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []schedule.Task{}, nil
	}

	if data[0] == '[' {
		var tasks []schedule.Task
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode task list")
		}
		return tasks, nil
	}

	var f taskFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode task file")
	}
	return orEmpty(f.Tasks), nil
}

func decodeYAML(data []byte) ([]schedule.Task, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode task file")
	}
	if len(doc.Content) == 0 {
		return []schedule.Task{}, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var tasks []schedule.Task
		if err := root.Decode(&tasks); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode task list")
		}
		return tasks, nil
	case yaml.MappingNode:
		var f taskFile
		if err := root.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode task file")
		}
		return orEmpty(f.Tasks), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "task file must be a list or an object with a tasks key")
}

func orEmpty(tasks []schedule.Task) []schedule.Task {
	if tasks == nil {
		return []schedule.Task{}
	}
	return tasks
}

// ImportTasks reads the task file at path from fsys.
// A missing file is reported with code FILE_NOT_FOUND.
func ImportTasks(fsys afero.Fs, path string) ([]schedule.Task, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "task file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	tasks, err := ReadTasks(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}
