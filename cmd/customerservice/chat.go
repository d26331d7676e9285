package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	chatLocal bool
	chatWS    bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the customer service agents interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDialer(chatLocal, chatWS)
		if err != nil {
			return err
		}
		defer d.Close()
		return runChat(cmd.Context(), d)
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatLocal, "local", false, "Run the agents in-process instead of calling the router agent")
	chatCmd.Flags().BoolVar(&chatWS, "ws", false, "Talk to the router agent over its websocket endpoint")
}

func runChat(ctx context.Context, d *dialer) error {
	banner("Multi-Agent Customer Service System (A2A)")
	fmt.Println("Connected to", d.describe())
	fmt.Println("\nCommands:")
	fmt.Println("  /quit or /exit  - Exit the system")
	fmt.Println("  /clear          - Clear conversation history")
	fmt.Println("  /history        - Show conversation history")
	fmt.Println("  /new            - Start new conversation session")

	conv, err := d.open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	you := color.New(color.FgCyan, color.Bold).Sprint("You: ")
	agent := color.New(color.FgGreen, color.Bold).Sprint("Agent: ")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n" + you)
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "/quit", "/exit":
			fmt.Println("Goodbye!")
			return nil

		case "/clear":
			if err := conv.Clear(ctx); err != nil {
				printError(err)
				continue
			}
			printStatus("✓", "Conversation history cleared", color.FgGreen)

		case "/new":
			next, err := d.open(ctx)
			if err != nil {
				printError(err)
				continue
			}
			_ = conv.Close()
			conv = next
			printStatus("✓", "New conversation session started", color.FgGreen)

		case "/history":
			history, err := conv.History(ctx)
			if err != nil {
				printError(err)
				continue
			}
			if len(history) == 0 {
				fmt.Println("No conversation history yet")
				continue
			}
			fmt.Println("\nConversation History:")
			for i, turn := range history {
				fmt.Printf("\n[Turn %d]\n%s%s\n%s%s\n", i+1, you, turn.User, agent, turn.Agent)
			}

		default:
			reply, err := conv.Send(ctx, input)
			if err != nil {
				printError(err)
				continue
			}
			fmt.Println(agent + reply)
		}
	}
}
