package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"mediaskills/batch"
	"mediaskills/core"
	"mediaskills/imagegen"
)

// cliArgs is the parsed banana-proxy command line.
type cliArgs struct {
	Prompt          string
	PromptFiles     []string
	ImagePath       string
	BatchPath       string
	Concurrency     int
	Model           string
	AspectRatio     string
	Quality         imagegen.Quality
	ImageSize       imagegen.ImageSize
	ReferenceImages []string
	JSON            bool
	Help            bool
	Version         bool
}

func parseArgs(argv []string) (*cliArgs, error) {
	out := &cliArgs{
		Concurrency: batch.DefaultConcurrency,
		Quality:     imagegen.DefaultQuality,
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
			out.ImagePath = v
		case "--batch":
			v, err := s.Value(a)
			if err != nil {
				return nil, err
			}
			out.BatchPath = v
		case "--concurrency":
			n, err := strconv.Atoi(s.Raw())
			if err != nil || n <= 0 {
				return nil, core.ErrInvalidArgument("Invalid --concurrency, must be a positive integer")
			}
			out.Concurrency = n
		case "-m", "--model":
			v, err := s.Value(a)
			if err != nil {
				return nil, err
			}
			out.Model = v
		case "--ar":
			v, err := s.Value(a)
			if err != nil {
				return nil, err
			}
			out.AspectRatio = v
		case "--quality":
			q, err := imagegen.ParseQuality(s.Raw())
			if err != nil {
				return nil, err
			}
			out.Quality = q
		case "--imageSize":
			size, err := imagegen.ParseImageSize(s.Raw())
			if err != nil {
				return nil, err
			}
			out.ImageSize = size
		case "--ref", "--reference":
			refs, err := s.Many(a)
			if err != nil {
				return nil, err
			}
			out.ReferenceImages = append(out.ReferenceImages, refs...)
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

// options returns the generation options the command line asks for.
func (a *cliArgs) options() imagegen.Options {
	return imagegen.Options{
		AspectRatio:     a.AspectRatio,
		Quality:         a.Quality,
		ImageSize:       a.ImageSize,
		ReferenceImages: a.ReferenceImages,
	}
}

// batchDefaults returns the CLI values a batch task falls back to.
func (a *cliArgs) batchDefaults(defaultModel string) batch.Defaults {
	return batch.Defaults{
		Model:           a.Model,
		DefaultModel:    defaultModel,
		AspectRatio:     a.AspectRatio,
		Quality:         a.Quality,
		ImageSize:       a.ImageSize,
		ReferenceImages: a.ReferenceImages,
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  banana-proxy --prompt "A cat" --image cat.png
  banana-proxy --prompt "A landscape" --image landscape.png --ar 16:9
  banana-proxy --promptfiles system.md content.md --image out.png
  banana-proxy --batch jobs.jsonl --concurrency 4

Options:
  -p, --prompt <text>       Prompt text
  --promptfiles <files...>  Read prompt from files (concatenated)
  --image <path>            Output image path (required)
  --batch <file>            Batch tasks file (.json, .jsonl, .yaml or .yml)
  --concurrency <n>         Parallel workers for --batch (default: 4)
  -m, --model <id>          Model ID
  --ar <ratio>              Aspect ratio (e.g., 16:9, 1:1, 4:3)
  --quality normal|2k       Quality preset (default: 2k)
  --imageSize 1K|2K|4K      Image size for Gemini (default: from quality)
  --ref <files...>          Reference images
  --json                    JSON output
  -h, --help                Show help
  --version                 Show version

Environment variables:
  LNAPI_KEY                 Primary provider API key
  GOOGLE_IMAGE_MODEL        Default Google model (gemini-3-pro-image-preview)
  GOOGLE_BASE_URL           Primary provider base URL (default: https://lnapi.com)
  GEEKAI_API_KEY            GeekAI fallback API key (used when primary fails)
  GEEKAI_IMAGE_MODEL        GeekAI fallback model (default: nano-banana-2)
  MEDIASKILLS_LOG_LEVEL     Log level (default: info)

Env file load order: CLI args > process env > <cwd>/.baoyu-skills/.env > ~/.baoyu-skills/.env
`)
}
