package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"mediaskills/core"
	"mediaskills/videogen"
)

type cliArgs struct {
	Prompt      string
	PromptFiles []string
	Image       string
	Output      string
	Model       string
	Seconds     string
	Size        string
	Poll        time.Duration
	JSON        bool
	Help        bool
	Version     bool
}

func parseArgs(argv []string) (*cliArgs, error) {
	out := &cliArgs{
		Model:   videogen.DefaultModel,
		Seconds: videogen.DefaultSeconds,
		Size:    videogen.DefaultSize,
		Poll:    videogen.DefaultPollInterval,
	}
	var positional []string

	s := core.NewArgScanner(argv)
	for {
		a, ok := s.Next()
		if !ok {
			break
		}

		switch a {
		case "-h", "--help":
			out.Help = true
		case "--version":
			out.Version = true
		case "--json":
			out.JSON = true
		case "-p", "--prompt":
			v, err := s.Value(a)
			if err != nil {
				return nil, err
			}
			out.Prompt = v
		case "--promptfiles":
			files, err := s.Many(a)
			if err != nil {
				return nil, err
			}
			out.PromptFiles = append(out.PromptFiles, files...)
		case "--image":
			v, err := s.Value(a)
			if err != nil {
				return nil, err
			}
			out.Image = v
		case "--output":
			v, err := s.Value(a)
			if err != nil {
				return nil, err
			}
			out.Output = v
		case "--model":
			v, err := s.Value(a)
			if err != nil {
				return nil, err
			}
			out.Model = v
		case "--seconds":
			v := s.Raw()
			if v != "10" && v != "15" {
				return nil, core.ErrInvalidArgument("Invalid seconds: %s", v)
			}
			out.Seconds = v
		case "--size":
			v, err := s.Value(a)
			if err != nil {
				return nil, err
			}
			out.Size = v
		case "--poll":
			ms, err := strconv.Atoi(s.Raw())
			if err != nil || ms <= 0 {
				return nil, core.ErrInvalidArgument("Invalid --poll, must be a positive integer")
			}
			out.Poll = time.Duration(ms) * time.Millisecond
		default:
			if core.IsOption(a) {
				return nil, core.ErrUnknownOption(a)
			}
			positional = append(positional, a)
		}
	}

	if out.Prompt == "" && len(out.PromptFiles) == 0 && len(positional) > 0 {
		out.Prompt = strings.Join(positional, " ")
	}
	return out, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  sora-video --prompt "A video prompt" --output video.mp4
  sora-video --prompt "Animate this" --image input.jpg --output video.mp4

Options:
  -p, --prompt <text>       Prompt text
  --promptfiles <files...>  Read prompt from files (concatenated)
  --image <path>            Input image path or URL (for image-to-video)
  --output <path>           Output video path (required)
  --model <id>              Model ID (default: sora-2)
  --seconds <10|15>         Duration in seconds (default: 10)
  --size <WxH>              Resolution (1280x720, 720x1280, 720x720) (default: 720x1280)
  --poll <ms>               Polling interval in ms (default: 5000)
  --json                    JSON output
  -h, --help                Show help
  --version                 Show version

Environment variables:
  LNAPI_KEY                 API Key for lnapi.com
  SORA_BASE_URL             API base URL (default: https://lnapi.com/v1)

Env file load order: CLI args > process env > <cwd>/.shuliu-skills/.env > ~/.shuliu-skills/.env
`)
}
