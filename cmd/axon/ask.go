package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"axon-assistant/internal/bootstrap"
	"axon-assistant/internal/config"
	"axon-assistant/internal/dto"
	"axon-assistant/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [utterance...]",
	Short: "Send one utterance and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAssistant(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
			_, err := ask(ctx, c.AssistantService, cmd.OutOrStdout(), sessionID, strings.Join(args, " "))
			return err
		})
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Talk to AXON until EOF or \"exit\"",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAssistant(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
			return repl(ctx, c.AssistantService, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List saved notes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAssistant(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
			notes, err := c.ListService.Notes(ctx)
			if err != nil {
				return err
			}
			for i, n := range notes {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, n.Text)
			}
			return nil
		})
	},
}

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "List todos, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAssistant(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
			todos, err := c.ListService.Todos(ctx)
			if err != nil {
				return err
			}
			for i, t := range todos {
				mark := " "
				if t.Done {
					mark = "x"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d. [%s] %s\n", i+1, mark, t.Task)
			}
			return nil
		})
	},
}

func withAssistant(ctx context.Context, fn func(context.Context, *bootstrap.Container) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()
	c, err := bootstrap.NewContainer(cfg, bootstrap.WithTerminal(os.Stdout))
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}
	return fn(ctx, c)
}

func buildRequest(session, text string) *dto.CommandRequest {
	req := &dto.CommandRequest{
		SessionId: session,
		Text:      text,
		Mode:      mode,
		Voice:     voice,
	}
	if latitude != 0 || longitude != 0 {
		lat, lon := latitude, longitude
		req.Location = &dto.LocationDTO{Latitude: &lat, Longitude: &lon}
	}
	return req
}

// ask sends one utterance. The reply itself is rendered by the terminal
// sink; ask adds the numbered candidates.
func ask(ctx context.Context, svc service.IAssistantService, out io.Writer, session, text string) (*dto.CommandResponse, error) {
	res, err := svc.Handle(ctx, buildRequest(session, text))
	if err != nil {
		return nil, err
	}
	printCandidates(out, res.Candidates)
	return res, nil
}

func printCandidates(out io.Writer, candidates []string) {
	num := color.New(color.FgYellow, color.Bold)
	for i, c := range candidates {
		num.Fprintf(out, "  %d. ", i+1)
		fmt.Fprintln(out, c)
	}
}

func repl(ctx context.Context, svc service.IAssistantService, in io.Reader, out io.Writer) error {
	prompt := color.New(color.FgGreen, color.Bold)
	session := sessionID
	scanner := bufio.NewScanner(in)

	for {
		prompt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "exit" || text == "quit" {
			return nil
		}
		if text == "" {
			continue
		}

		res, err := ask(ctx, svc, out, session, text)
		if err != nil {
			color.New(color.FgRed).Fprintf(out, "error: %v\n", err)
			continue
		}
		session = res.SessionId.String()
	}
}
