package batch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadTasks reads a batch file. The format follows the extension:
//   - .json: a JSON array of task objects
//   - .yaml, .yml: a YAML sequence of task objects
//   - anything else: JSON Lines, one object per non-blank line
//
// Empty or whitespace-only content yields zero tasks and no error; the caller
// decides how to report that.
func LoadTasks(path string) ([]RawTask, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseTasks(path, content)
}

// ParseTasks parses batch content using the extension of name.
func ParseTasks(name string, content []byte) ([]RawTask, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return parseJSONArray(trimmed)
	case ".yaml", ".yml":
		return parseYAML(trimmed)
	default:
		return parseJSONLines(content)
	}
}

func parseJSONArray(content []byte) ([]RawTask, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(content, &items); err != nil {
		var probe any
		if json.Unmarshal(content, &probe) == nil {
			return nil, &ValidationError{Reason: "--batch JSON must be an array"}
		}
		return nil, &ValidationError{Reason: fmt.Sprintf("Invalid --batch JSON: %v", err)}
	}

	tasks := make([]RawTask, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &tasks[i]); err != nil {
			return nil, &ValidationError{TaskNumber: i + 1, Reason: fmt.Sprintf("is not a valid task object: %v", err)}
		}
	}
	return tasks, nil
}

func parseYAML(content []byte) ([]RawTask, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(content, &node); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("Invalid --batch YAML: %v", err)}
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.SequenceNode {
		return nil, &ValidationError{Reason: "--batch YAML must be a list"}
	}

	var tasks []RawTask
	if err := node.Content[0].Decode(&tasks); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("Invalid --batch YAML: %v", err)}
	}
	return tasks, nil
}

// parseJSONLines numbers records after dropping blank lines, so the line in
// "Invalid JSONL at line n" is the n-th non-blank line.
func parseJSONLines(content []byte) ([]RawTask, error) {
	var tasks []RawTask
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var task RawTask
		if err := json.Unmarshal([]byte(line), &task); err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("Invalid JSONL at line %d", len(tasks)+1)}
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
