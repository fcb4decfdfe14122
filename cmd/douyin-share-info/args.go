package main

import (
	"fmt"
	"io"

	"mediaskills/core"
)

type cliArgs struct {
	ShareURL string
	RawPath  string
	JSON     bool
	Help     bool
	Version  bool
}

// parseArgs accepts the share URL as a flag or as the single positional
// argument. Output is JSON unless --text is given.
func parseArgs(argv []string) (*cliArgs, error) {
	out := &cliArgs{JSON: true}

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
		case "--text":
			out.JSON = false
		case "--share-url", "--url":
			v, err := s.Value(a)
			if err != nil {
				return nil, err
			}
			out.ShareURL = v
		case "--raw":
			v, err := s.Value(a)
			if err != nil {
				return nil, err
			}
			out.RawPath = v
		default:
			if core.IsOption(a) {
				return nil, core.ErrUnknownOption(a)
			}
			if out.ShareURL != "" {
				return nil, core.ErrInvalidArgument("Unexpected argument: %s", a)
			}
			out.ShareURL = a
		}
	}
	return out, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  douyin-share-info --share-url "https://v.douyin.com/xxxx/" --json

Options:
  --share-url <url>        Douyin share URL (required)
  --url <url>              Alias of --share-url
  --raw <path>             Save raw TikHub response JSON
  --json                   Output JSON (default: true)
  --text                   Output a short text summary instead of JSON
  -h, --help               Show help
  --version                Show version

Environment variables:
  TIKHUB_API_KEY           API key for TikHub (required)
  TIKHUB_BASE_URL          API base URL (default: https://api.tikhub.io)

Env file load order: CLI > process env > <cwd>/.baoyu-skills/.env > ~/.baoyu-skills/.env
`)
}
