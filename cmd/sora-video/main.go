// Command sora-video generates a short video through the lnapi Sora task API:
// it creates a task, polls it until it settles and downloads the result.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"mediaskills/core"
	"mediaskills/shutdown"
	"mediaskills/videogen"

	"go.uber.org/zap"
)

const (
	toolName = "sora-video"
	provider = "lnapi-sora"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type successResult struct {
	SavedVideo string         `json:"savedVideo"`
	Provider   string         `json:"provider"`
	Model      string         `json:"model"`
	Prompt     string         `json:"prompt"`
	Task       *videogen.Task `json:"task"`
}

type failureResult struct {
	Error string         `json:"error"`
	Task  *videogen.Task `json:"task"`
}

func run(ctx context.Context, argv []string, stdin *os.File, stdout, stderr io.Writer) int {
	args, err := parseArgs(argv)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}
	if args.Help {
		printUsage(stdout)
		return core.ExitCodeSuccess
	}
	if args.Version {
		fmt.Fprintln(stdout, core.GetVersionInfo(toolName))
		return core.ExitCodeSuccess
	}

	rt, err := core.StartRuntime(ctx, toolName, core.ShuliuEnvDir, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}
	logger := rt.Logger
	defer func() {
		_ = logger.Sync()
	}()

	// The first interrupt abandons the task wait; the task itself keeps
	// running server side.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	interrupted := make(chan os.Signal, 1)
	stop := shutdown.WatchInterrupts(shutdown.WatchOptions{
		Logger: logger,
		OnFirst: func(sig os.Signal) {
			fmt.Fprintln(stderr, "\nInterrupted, stopping...")
			interrupted <- sig
			cancel()
		},
	})
	defer stop()

	// fail reports err, or the signal exit code when err stems from an interrupt.
	fail := func(err error) int {
		select {
		case sig := <-interrupted:
			return shutdown.ExitCodeFor(sig)
		default:
		}
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}

	prompt, err := core.ResolvePrompt(args.Prompt, args.PromptFiles, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}
	if prompt == "" {
		fmt.Fprintln(stderr, "Error: Prompt is required")
		printUsage(stdout)
		return core.ExitCodeError
	}
	if args.Output == "" {
		fmt.Fprintln(stderr, "Error: Output path is required")
		printUsage(stdout)
		return core.ExitCodeError
	}

	client, err := videogen.NewClient(rt.Config, logger)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}

	req := videogen.CreateRequest{
		Model:   args.Model,
		Prompt:  prompt,
		Seconds: args.Seconds,
		Size:    args.Size,
	}
	if args.Image != "" {
		if req.Image, err = videogen.ImageInput(args.Image); err != nil {
			fmt.Fprintln(stderr, err.Error())
			return core.ExitCodeError
		}
	}

	if !args.JSON {
		fmt.Fprintln(stdout, "Starting video generation...")
		fmt.Fprintf(stdout, "Prompt: %s\n", prompt)
		if req.Image != "" {
			fmt.Fprintln(stdout, "Image input provided")
		}
	}

	task, err := client.CreateTask(ctx, req)
	if err != nil {
		return fail(err)
	}
	if !args.JSON {
		fmt.Fprintf(stdout, "Task created: %s\n", task.ID)
	}

	var onPoll func(*videogen.Task)
	if !args.JSON {
		onPoll = func(t *videogen.Task) {
			fmt.Fprintf(stdout, "Status: %s (Progress: %s%%) \r", t.Status,
				strconv.FormatFloat(t.ProgressPercent(), 'f', -1, 64))
		}
	}
	final, err := client.WaitForCompletion(ctx, task, args.Poll, onPoll)
	if err != nil {
		return fail(err)
	}
	if !args.JSON {
		fmt.Fprintf(stdout, "\nFinal Status: %s\n", final.Status)
	}

	if final.Status != videogen.StatusCompleted || final.VideoURL == "" {
		return reportFailure(args, final, stdout, stderr)
	}

	if !args.JSON {
		fmt.Fprintf(stdout, "Downloading video from %s...\n", final.VideoURL)
	}
	outputPath, err := filepath.Abs(args.Output)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}
	progress := core.NewProgressTracker()
	size, err := client.Download(ctx, final.VideoURL, outputPath, func(written, total int64) {
		logger.Info("Download progress", progress.Observe(written, total).Fields()...)
	})
	if err != nil {
		return fail(err)
	}
	logger.Debug("Video downloaded",
		zap.String("path", outputPath),
		zap.String("size", core.FormatBytes(size)),
		zap.Duration("elapsed", progress.Last().Elapsed))

	if !args.JSON {
		fmt.Fprintf(stdout, "Video saved to: %s\n", outputPath)
		return core.ExitCodeSuccess
	}
	return writeJSON(stdout, stderr, successResult{
		SavedVideo: outputPath,
		Provider:   provider,
		Model:      args.Model,
		Prompt:     prompt,
		Task:       final,
	}, core.ExitCodeSuccess)
}

// reportFailure reports a task that settled without a video.
func reportFailure(args *cliArgs, task *videogen.Task, stdout, stderr io.Writer) int {
	if !args.JSON {
		fmt.Fprintf(stderr, "Generation failed: %s\n", task.FailureReason)
		return core.ExitCodeError
	}

	reason := task.FailureReason
	if reason == "" {
		reason = "Unknown error"
	}
	return writeJSON(stdout, stderr, failureResult{Error: reason, Task: task}, core.ExitCodeError)
}

func writeJSON(stdout, stderr io.Writer, v interface{}, code int) int {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}
	fmt.Fprintln(stdout, string(out))
	return code
}
