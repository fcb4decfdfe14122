package core

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ResolvePrompt picks the prompt text in precedence order: the explicit
// prompt, then the prompt files joined by a blank line, then piped stdin.
// An empty result means no prompt was supplied.
func ResolvePrompt(prompt string, files []string, stdin *os.File) (string, error) {
	if prompt != "" {
		return prompt, nil
	}
	if len(files) > 0 {
		joined, err := ReadPromptFiles(files)
		if err != nil {
			return "", err
		}
		if joined != "" {
			return joined, nil
		}
	}
	return ReadPromptFromStdin(stdin), nil
}

// ReadPromptFiles reads every file and concatenates the contents with "\n\n".
func ReadPromptFiles(files []string) (string, error) {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file %s: %w", f, err)
		}
		parts = append(parts, string(data))
	}
	return strings.Join(parts, "\n\n"), nil
}

// ReadPromptFromStdin returns the trimmed contents of stdin when it is piped
// or redirected. A terminal, a nil file, or a read error yields "".
func ReadPromptFromStdin(stdin *os.File) string {
	if stdin == nil {
		return ""
	}
	info, err := stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return ""
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
