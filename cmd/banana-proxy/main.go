// Command banana-proxy generates images from text prompts through the lnapi
// Gemini proxy, falling back to GeekAI when the primary provider fails.
// With --batch it runs a file of tasks through a pool of parallel workers.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"mediaskills/batch"
	"mediaskills/core"
	"mediaskills/imagegen"
	"mediaskills/shutdown"

	"go.uber.org/zap"
)

const toolName = "banana-proxy"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// singleResult is the --json output of a single generation.
type singleResult struct {
	SavedImage string `json:"savedImage"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Prompt     string `json:"prompt"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
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

	rt, err := core.StartRuntime(ctx, toolName, core.BaoyuEnvDir, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}
	logger := rt.Logger
	defer func() {
		_ = logger.Sync()
	}()

	stop := shutdown.WatchInterrupts(shutdown.WatchOptions{
		Logger: logger,
		OnFirst: func(os.Signal) {
			fmt.Fprintln(stderr, "Interrupt received, finishing in-flight work. Interrupt again to abort.")
		},
	})
	defer stop()

	gen, err := imagegen.NewGeneratorFromConfig(rt.Config, logger)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}

	if args.BatchPath != "" {
		return runBatch(ctx, args, gen, rt, stdout, stderr)
	}
	return runSingle(ctx, args, gen, stdin, stdout, stderr)
}

func runBatch(ctx context.Context, args *cliArgs, gen *imagegen.Generator, rt *core.Runtime, stdout, stderr io.Writer) int {
	raws, err := batch.LoadTasks(args.BatchPath)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}
	if len(raws) == 0 {
		fmt.Fprintln(stderr, "Error: --batch file has no tasks")
		return core.ExitCodeError
	}

	tasks, err := batch.NewResolver(args.batchDefaults(gen.DefaultModel())).ResolveAll(raws)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}

	runner, err := batch.NewRunner(gen, args.Concurrency, rt.Logger)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}

	rt.Logger.Info("Batch started",
		zap.String("file", args.BatchPath),
		zap.Int("tasks", len(tasks)),
		zap.Int("concurrency", args.Concurrency))

	report := runner.Run(ctx, tasks)

	if args.JSON {
		if err := report.WriteJSON(stdout); err != nil {
			fmt.Fprintln(stderr, err.Error())
			return core.ExitCodeError
		}
	} else {
		report.WriteText(stdout)
	}
	return report.ExitCode()
}

func runSingle(ctx context.Context, args *cliArgs, gen *imagegen.Generator, stdin *os.File, stdout, stderr io.Writer) int {
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
	if args.ImagePath == "" {
		fmt.Fprintln(stderr, "Error: --image is required")
		printUsage(stdout)
		return core.ExitCodeError
	}

	model := args.Model
	if model == "" {
		model = gen.DefaultModel()
	}
	outputPath, err := imagegen.NormalizeOutputPath(args.ImagePath)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}

	saved, err := gen.GenerateToFile(ctx, imagegen.Request{
		Prompt:     prompt,
		Model:      model,
		OutputPath: outputPath,
		Options:    args.options(),
	})
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}

	if !args.JSON {
		fmt.Fprintln(stdout, saved.Path)
		return core.ExitCodeSuccess
	}

	out, err := json.MarshalIndent(singleResult{
		SavedImage: saved.Path,
		Provider:   batch.ReportProvider,
		Model:      model,
		Prompt:     imagegen.TruncateRunes(prompt, 200),
		Width:      saved.Width,
		Height:     saved.Height,
	}, "", "  ")
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return core.ExitCodeError
	}
	fmt.Fprintln(stdout, string(out))
	return core.ExitCodeSuccess
}
