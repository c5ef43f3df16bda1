// Package ui is the terminal client: a welcome screen, a capture prompt, an
// analysis spinner and a result card, looping until the user quits.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/raine/pricesnap/internal/capture"
	"github.com/raine/pricesnap/internal/prediction"
	"github.com/raine/pricesnap/internal/pricing"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Analyzer is the part of the pricing service the client needs.
type Analyzer interface {
	Analyze(ctx context.Context, img prediction.Image) pricing.Report
}

// IsInteractiveTerminal returns true if both stdin and stdout are TTYs.
func IsInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

type App struct {
	analyzer   Analyzer
	out        io.Writer
	maxSize    int64
	downloader *capture.ImageDownloader
}

// NewApp creates the client. A nil downloader uses the default settings.
func NewApp(analyzer Analyzer, out io.Writer, maxImageBytes int64, downloader *capture.ImageDownloader) *App {
	if downloader == nil {
		downloader = capture.NewImageDownloader()
	}
	return &App{
		analyzer:   analyzer,
		out:        out,
		maxSize:    maxImageBytes,
		downloader: downloader,
	}
}

// Run shows the interactive flow until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	start, err := a.welcome(ctx)
	if err != nil || !start {
		return ignoreAbort(err)
	}

	for {
		input, err := a.askImage(ctx)
		if err != nil {
			return ignoreAbort(err)
		}

		report, err := a.analyzeInput(ctx, input)
		if err != nil {
			fmt.Fprintln(a.out, errorStyle.Render(fmt.Sprintf(MsgCaptureFailed, err)))
		} else {
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, titleStyle.Render(MsgResultTitle))
			fmt.Fprintln(a.out, RenderCard(report.Result))
			fmt.Fprintln(a.out, RenderNotice(report))
			fmt.Fprintln(a.out)
		}

		again, err := a.askAgain(ctx)
		if err != nil || !again {
			return ignoreAbort(err)
		}
	}
}

func (a *App) welcome(ctx context.Context) (bool, error) {
	start := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(MsgAppTitle).
				Description(MsgWelcomeSteps+"\n\n"+MsgWelcomeNote),
			huh.NewConfirm().
				Affirmative(MsgStart).
				Negative(MsgQuit).
				Value(&start),
		),
	).WithTheme(huh.ThemeBase16())
	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}
	return start, nil
}

func (a *App) askImage(ctx context.Context) (string, error) {
	var input string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(MsgCaptureTitle).
				Description(MsgCapturePrompt + "\n" + MsgCaptureHelp).
				Value(&input).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("an image is required")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeBase16())
	if err := form.RunWithContext(ctx); err != nil {
		return "", err
	}
	return input, nil
}

func (a *App) askAgain(ctx context.Context) (bool, error) {
	again := true
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Affirmative(MsgTryAnother).
				Negative(MsgQuit).
				Value(&again),
		),
	).WithTheme(huh.ThemeBase16()).RunWithContext(ctx)
	return again, err
}

// analyzeInput captures the image and runs the analysis behind a spinner.
func (a *App) analyzeInput(ctx context.Context, input string) (pricing.Report, error) {
	src, err := capture.Resolve(input, a.maxSize, a.downloader)
	if err != nil {
		return pricing.Report{}, err
	}

	var report pricing.Report
	var captureErr error
	err = spinner.New().
		Title(MsgAnalyzing).
		Context(ctx).
		Action(func() {
			report, captureErr = Analyze(ctx, a.analyzer, src)
		}).
		Run()
	if err != nil {
		return pricing.Report{}, err
	}
	return report, captureErr
}

// Analyze captures one image from src and prices it.
func Analyze(ctx context.Context, analyzer Analyzer, src capture.Source) (pricing.Report, error) {
	img, err := src.Capture(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("capture failed")
		return pricing.Report{}, err
	}
	return analyzer.Analyze(ctx, img), nil
}

// PrintReports prices each input and prints plain-text results, for use
// outside an interactive terminal. It returns the number of inputs that
// could not be captured.
func (a *App) PrintReports(ctx context.Context, inputs []string) int {
	failed := 0
	for i, input := range inputs {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		src, err := capture.Resolve(input, a.maxSize, a.downloader)
		if err == nil {
			var report pricing.Report
			if report, err = Analyze(ctx, a.analyzer, src); err == nil {
				fmt.Fprintln(a.out, FormatResult(report.Result))
				title, detail, _ := Notice(report)
				fmt.Fprintln(a.out, title)
				if detail != "" {
					fmt.Fprintln(a.out, detail)
				}
				continue
			}
		}
		failed++
		fmt.Fprintf(a.out, MsgCaptureFailed+"\n", err)
	}
	return failed
}

func ignoreAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
