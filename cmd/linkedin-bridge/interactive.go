package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/talentwire/linkedin-mcp-bridge/internal/linkedin"
)

const interactiveHelp = `Commands:
  list-tools                            List available tools
  person <url>                          Fetch a person profile
  company <url>                         Fetch a company profile
  posts <url> [limit]                   Fetch company posts
  search [keywords] [location] [limit]  Search job postings
  job <url>                             Fetch job details
  close                                 Close the browser session
  help                                  Show this help
  exit                                  Leave interactive mode`

// runInteractive reads commands from stdin and executes them against one
// connected session. Command failures are reported and the loop continues.
func runInteractive(ctx context.Context, client *linkedin.Client) error {
	fmt.Println("linkedin-bridge interactive mode. Type 'help' for commands, 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("linkedin> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			return nil
		}
		if err := runInteractiveCommand(ctx, client, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func runInteractiveCommand(ctx context.Context, client *linkedin.Client, line string) error {
	fields := strings.Fields(line)
	command, args := fields[0], fields[1:]

	switch command {
	case "help":
		fmt.Println(interactiveHelp)
		return nil

	case "list-tools":
		tools, err := client.ListTools(ctx)
		if err != nil {
			return err
		}
		for _, tool := range tools {
			fmt.Printf("  %s\n", tool.Name)
		}
		return nil

	case "person":
		if len(args) != 1 {
			return fmt.Errorf("usage: person <url>")
		}
		profile, err := client.GetPersonProfile(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(profile)

	case "company":
		if len(args) != 1 {
			return fmt.Errorf("usage: company <url>")
		}
		company, err := client.GetCompanyProfile(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(company)

	case "posts":
		if len(args) < 1 {
			return fmt.Errorf("usage: posts <url> [limit]")
		}
		var limit *int
		if len(args) > 1 {
			parsed, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("limit must be a number: %w", err)
			}
			limit = &parsed
		}
		posts, err := client.GetCompanyPosts(ctx, args[0], limit)
		if err != nil {
			return err
		}
		return printJSON(posts)

	case "search":
		params := linkedin.JobSearchParams{}
		if len(args) > 0 {
			params.Keywords = args[0]
		}
		if len(args) > 1 {
			params.Location = args[1]
		}
		if len(args) > 2 {
			parsed, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("limit must be a number: %w", err)
			}
			params.Limit = parsed
		}
		result, err := client.SearchJobs(ctx, params)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "job":
		if len(args) != 1 {
			return fmt.Errorf("usage: job <url>")
		}
		details, err := client.GetJobDetails(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(details)

	case "close":
		closed, err := client.CloseSession(ctx)
		if err != nil {
			return err
		}
		return printJSON(closed)

	default:
		return fmt.Errorf("unknown command %q, type 'help' for commands", command)
	}
}
