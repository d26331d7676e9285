package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type scenario struct {
	title string
	turns []string
}

// multiTurnScenarios each run in one conversation.
var multiTurnScenarios = []scenario{
	{
		title: "Multi-turn customer support with ID follow-up",
		turns: []string{
			"I need help upgrading my account",
			"My customer ID is 12345",
			"What options do I have?",
		},
	},
	{
		title: "Billing issue with multiple follow-ups",
		turns: []string{
			"I have a billing problem",
			"I was charged twice for my subscription",
			"My customer ID is 5",
			"Can you issue a refund?",
		},
	},
	{
		title: "Email update with verification",
		turns: []string{
			"I want to update my contact information",
			"Customer ID 5, please update my email",
			"New email is evan.new@example.com",
			"Can you show me my updated information?",
		},
	},
}

// singleTurnScenarios each run in a fresh conversation.
var singleTurnScenarios = []scenario{
	{title: "Simple Query", turns: []string{"Get customer information for ID 5"}},
	{title: "Coordinated Query", turns: []string{"I'm customer 12345 and need help upgrading my account"}},
	{title: "Complex Query", turns: []string{"Show me all active customers who have open tickets"}},
	{title: "Escalation", turns: []string{"I've been charged twice, please refund immediately!"}},
	{title: "Multi-Intent", turns: []string{"Update my email to new@email.com and show my ticket history for 12345"}},
}

var (
	demoLocal bool
	demoWS    bool
	demoSeed  bool
	demoPause time.Duration
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the scripted customer service scenarios",
	Long: `Run three multi-turn conversations followed by five single-turn queries.

By default the scenarios talk to a running router agent over A2A. --local runs
all agents in this process against the configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDialer(demoLocal, demoWS)
		if err != nil {
			return err
		}
		defer d.Close()

		if demoSeed {
			if d.store == nil {
				return fmt.Errorf("--seed requires --local")
			}
			if err := d.store.SeedDefaults(cmd.Context()); err != nil {
				return err
			}
		}
		return runDemo(cmd.Context(), d)
	},
}

func init() {
	demoCmd.Flags().BoolVar(&demoLocal, "local", false, "Run the agents in-process instead of calling the router agent")
	demoCmd.Flags().BoolVar(&demoWS, "ws", false, "Talk to the router agent over its websocket endpoint")
	demoCmd.Flags().BoolVar(&demoSeed, "seed", false, "Reset the database before running (requires --local)")
	demoCmd.Flags().DurationVar(&demoPause, "pause", 0, "Pause between turns")
}

func runDemo(ctx context.Context, d *dialer) error {
	banner("Multi-Agent Customer Service System (A2A)")
	fmt.Println("Target:", d.describe())

	for i, sc := range multiTurnScenarios {
		heading(fmt.Sprintf("SCENARIO %d: %s", i+1, sc.title))
		if err := playScenario(ctx, d, sc); err != nil {
			return err
		}
	}

	for _, sc := range singleTurnScenarios {
		heading("Scenario: " + sc.title)
		if err := playScenario(ctx, d, sc); err != nil {
			return err
		}
	}

	banner("All test scenarios completed!")
	return nil
}

// playScenario runs the turns of sc in one conversation. A failed turn is
// printed and the scenario goes on; only failing to connect stops the demo.
func playScenario(ctx context.Context, d *dialer, sc scenario) error {
	conv, err := d.open(ctx)
	if err != nil {
		return err
	}
	defer conv.Close()

	for i, text := range sc.turns {
		if i > 0 && demoPause > 0 {
			time.Sleep(demoPause)
		}
		fmt.Printf("\n%s %s\n", color.New(color.FgCyan, color.Bold).Sprint("[User]:"), text)

		reply, err := conv.Send(ctx, text)
		if err != nil {
			reply = color.New(color.FgRed).Sprintf("Error: %v", err)
		}
		fmt.Printf("%s %s\n", color.New(color.FgGreen, color.Bold).Sprint("[Agent]:"), reply)
	}
	return nil
}

func banner(title string) {
	rule := strings.Repeat("=", 60)
	fmt.Println(rule)
	fmt.Println(color.New(color.Bold).Sprint(title))
	fmt.Println(rule)
}

func heading(title string) {
	fmt.Println()
	banner(title)
}
