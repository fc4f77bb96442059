// Package ocr is the boundary to the external text recognizer. The core
// only depends on the Recognizer interface and the flattening contract.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Line is one recognized text line.
type Line struct {
	Text string `json:"text"`
}

// Block is a group of lines detected together in the image.
type Block struct {
	Lines []Line `json:"lines"`
}

// Recognizer turns a photo into recognized text blocks.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) ([]Block, error)
}

// Flatten concatenates every line of every block, in recognition order,
// with no separator. Field extraction runs on this blob.
func Flatten(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		for _, l := range b.Lines {
			sb.WriteString(l.Text)
		}
	}
	return sb.String()
}

// Command runs an external OCR program that prints recognized text to
// stdout, e.g. Command{Name: "tesseract", Args: []string{"stdout"}}. The
// image path is inserted right after the program name; Args follow it.
// Each non-empty output line becomes one line in a single block.
type Command struct {
	Name string
	Args []string
}

func (c Command) Recognize(ctx context.Context, imagePath string) ([]Block, error) {
	args := append([]string{imagePath}, c.Args...)
	cmd := exec.CommandContext(ctx, c.Name, args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %s: %w", c.Name, err)
	}

	var block Block
	for _, text := range strings.Split(out.String(), "\n") {
		if text = strings.TrimSpace(text); text != "" {
			block.Lines = append(block.Lines, Line{Text: text})
		}
	}
	if len(block.Lines) == 0 {
		return nil, nil
	}
	return []Block{block}, nil
}
