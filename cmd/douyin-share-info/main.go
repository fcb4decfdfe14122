// Command douyin-share-info resolves a Douyin share URL to normalized video
// metadata (author, cover, audio and the best playable video URL) via TikHub.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"mediaskills/core"
	"mediaskills/douyin"

	"go.uber.org/zap"
)

const toolName = "douyin-share-info"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	if err := execute(ctx, argv, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err.Error())
		return core.ExitCodeError
	}
	return core.ExitCodeSuccess
}

func execute(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
	args, err := parseArgs(argv)
	if err != nil {
		return err
	}
	if args.Help {
		printUsage(stdout)
		return nil
	}
	if args.Version {
		fmt.Fprintln(stdout, core.GetVersionInfo(toolName))
		return nil
	}
	if args.ShareURL == "" {
		printUsage(stdout)
		return core.ErrMissingConfig("--share-url")
	}

	rt, err := core.StartRuntime(ctx, toolName, core.BaoyuEnvDir, stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = rt.Logger.Sync()
	}()

	client, err := douyin.NewClient(rt.Config, rt.Logger)
	if err != nil {
		return err
	}

	resp, raw, err := client.FetchByShareURL(ctx, args.ShareURL)
	if err != nil {
		return err
	}

	if args.RawPath != "" {
		path, err := douyin.WriteRaw(args.RawPath, raw)
		if err != nil {
			return err
		}
		rt.Logger.Debug("Raw response saved", zap.String("path", path))
	}

	output := douyin.BuildOutput(args.ShareURL, resp)
	if !args.JSON {
		output.WriteText(stdout)
		return nil
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(stdout, string(data))
	return nil
}
