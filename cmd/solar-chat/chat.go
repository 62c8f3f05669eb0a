package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jaehyun-p/solar-chat/internal/app/chat"
	"github.com/jaehyun-p/solar-chat/internal/config"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive terminal chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigch := make(chan os.Signal, 1)
			signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigch)
			go func() {
				<-sigch
				fmt.Println("\nExiting...")
				cancel()
			}()

			app, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}

			return runREPL(ctx, app)
		},
	}
}

func runREPL(ctx context.Context, app *app) error {
	out, err := app.chat.StartSession(ctx, chat.StartSessionInput{Title: "terminal session"})
	if err != nil {
		return err
	}
	sessionID := out.Session.ID

	fmt.Println("Solar LLM chatbot. The conversation is remembered for this session.")
	fmt.Println("Type /reset to clear the history, Ctrl-C to quit.")

	scanner := bufio.NewScanner(os.Stdin)

	// stdin reader goroutine -> lines into channel, so Ctrl-C is not
	// stuck behind a blocking read.
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

	for {
		fmt.Print("\033[94mYou\033[0m: ")

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-inputCh:
			if !ok {
				return nil
			}
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/reset" {
			if err := app.chat.ResetSession(ctx, sessionID); err != nil {
				fmt.Fprintf(os.Stderr, "reset failed: %v\n", err)
				continue
			}
			fmt.Println("(history cleared)")
			continue
		}

		reply, err := app.chat.SendMessage(ctx, chat.SendMessageInput{
			SessionID: sessionID,
			Text:      line,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Printf("\033[93mAssistant\033[0m: %s\n", reply.AssistantMessage.Text)
		if reply.Sentiment != nil {
			fmt.Printf("  sentiment: %s\n", reply.Sentiment.Display())
		}
	}
}
