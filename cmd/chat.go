package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/xhad/docmind/pkg/client"
)

const helpText = `Commands:
  /upload <path>  upload a PDF to ask about
  /theme          toggle light and dark colors
  /help           show this help
  exit            quit
Anything else is sent as a question about the uploaded PDF.`

func chatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Chat with the gateway from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Usage: "Gateway URL"},
			&cli.StringFlag{Name: "theme", Usage: "light or dark"},
			&cli.StringFlag{Name: "upload", Usage: "PDF to upload before the first prompt"},
			&cli.BoolFlag{Name: "verbose", Usage: "Print request errors"},
		},
		Action: runChat,
	}
}

func runChat(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if errs := cfg.ValidateClient(); len(errs) > 0 {
		return validationError(errs)
	}

	api, err := client.NewWithConfig(client.APIConfig{
		ServerURL: cfg.Client.ServerURL,
		FieldName: cfg.Upload.FieldName,
		Timeout:   time.Duration(cfg.Client.TimeoutSec) * time.Second,
	})
	if err != nil {
		return err
	}

	session := client.NewSession(api, client.Theme(cfg.Client.Theme))
	renderer := client.NewRenderer(os.Stdout, session.Theme)
	session.Subscribe(renderer.Update)

	ctx := c.Context
	verbose := c.Bool("verbose")

	color.Cyan("\nChat with your PDF (type /help for commands, 'exit' to quit)")
	if path := c.String("upload"); path != "" {
		report(withSpinner("Uploading PDF...", func() error {
			return session.SubmitUpload(ctx, path)
		}), verbose)
	}

	scanner := bufio.NewScanner(os.Stdin)
	inputPrompt := color.New(color.FgGreen).PrintfFunc()

	for {
		inputPrompt("\n> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit"):
			return nil
		case line == "/help":
			fmt.Println(helpText)
		case line == "/theme":
			color.Cyan("Theme: %s", session.ToggleTheme())
		case strings.HasPrefix(line, "/upload"):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/upload"))
			if path == "" {
				color.Yellow("Usage: /upload <path>")
				continue
			}
			report(withSpinner("Uploading PDF...", func() error {
				return session.SubmitUpload(ctx, path)
			}), verbose)
		default:
			session.SetInput(line)
			report(withSpinner("Generating response...", func() error {
				return session.SubmitQuestion(ctx, session.Input())
			}), verbose)
		}
	}

	return scanner.Err()
}

func withSpinner(description string, fn func() error) error {
	spinner := client.NewSpinner(os.Stderr, description)
	err := fn()
	_ = spinner.Finish()
	fmt.Fprint(os.Stderr, "\r")
	return err
}

// report prints hints for refused submissions; failed requests already show in the transcript.
func report(err error, verbose bool) {
	switch {
	case err == nil:
	case errors.Is(err, client.ErrNoDocument):
		color.Yellow("Upload a PDF first: /upload <path>")
	case errors.Is(err, client.ErrBusy):
		color.Yellow("Still working on the previous request")
	case errors.Is(err, client.ErrEmptyQuestion), errors.Is(err, client.ErrInvalidFile):
	default:
		if verbose {
			color.Red("Error: %v", err)
		}
	}
}
