package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"parallax/pkg/card"
	"parallax/pkg/client"

	"github.com/fatih/color"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "fulfillment backend base URL")
	scopeRoot := flag.String("scope", ".", "workspace scope root")
	planPath := flag.String("plan", "plan.md", "plan document path inside the scope")
	text := flag.String("text", "Budget: 120 + 45 * 2 =", "document text to submit")
	flag.Parse()

	cli := client.New(*baseURL)
	ctx := context.Background()

	color.Cyan("🚀 Probing fulfillment backend at %s\n", *baseURL)

	// 1. Health
	color.Yellow("\n1. GET /health")
	health, err := cli.Health(ctx)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", health.Status)
	prettyPrint(health)

	// 2. Submit a fulfillment round
	ws := card.Workspace{ScopeRoot: *scopeRoot, PlanPath: *planPath}
	color.Yellow("\n2. POST /fulfill (session %s)", ws.SessionID())
	res, err := cli.Submit(ctx, ws, *text, card.Position{Line: 0, Col: len(*text)})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Cards: %d, Processing: %v", len(res.Cards), res.Processing)
	prettyPrint(res)

	// 3. Poll until the slow fulfillers drain
	for round := 1; res.Processing; round++ {
		time.Sleep(3 * time.Second)
		color.Yellow("\n3.%d. GET /session/%s/cached", round, ws.SessionID())
		res, err = cli.Poll(ctx, ws.SessionID())
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Cards: %d, Processing: %v", len(res.Cards), res.Processing)
		prettyPrint(res)
	}

	// 4. Clear the session
	color.Yellow("\n4. DELETE /session/%s", ws.SessionID())
	if err := cli.Clear(ctx, ws.SessionID()); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Session cleared")

	color.Cyan("\n✅ Probe complete")
}
