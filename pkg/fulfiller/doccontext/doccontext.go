// Package doccontext pulls context cards from sibling plan files under the
// workspace scope root. Filesystem only, cheap enough to run inline.
package doccontext

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"parallax/pkg/card"
	"parallax/pkg/fulfiller"
)

const (
	maxCards    = 2
	maxExcerpt  = 240
	maxScanSize = 256 * 1024
)

type DocContext struct{}

func New() *DocContext { return &DocContext{} }

func (d *DocContext) Name() string                       { return "doccontext" }
func (d *DocContext) Synchronous() bool                  { return true }
func (d *DocContext) Available(ctx context.Context) bool { return true }

func (d *DocContext) Fulfill(ctx context.Context, req fulfiller.Request) ([]card.Card, error) {
	root := req.Workspace.ScopeRoot
	if root == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		// A missing scope root yields no cards, not an error; the rest of
		// the cycle must not depend on local filesystem state.
		return nil, nil
	}

	planBase := filepath.Base(req.Workspace.PlanPath)
	var cards []card.Card
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") || entry.Name() == planBase {
			continue
		}
		if info, err := entry.Info(); err != nil || info.Size() > maxScanSize {
			continue
		}
		content, err := os.ReadFile(filepath.Join(root, entry.Name()))
		if err != nil {
			continue
		}
		header, excerpt := summarize(string(content))
		if excerpt == "" {
			continue
		}
		if header == "" {
			header = entry.Name()
		}
		cards = append(cards, card.Card{
			Header:   header,
			Text:     excerpt,
			Kind:     card.KindContext,
			Metadata: map[string]any{"source": "doccontext", "file": entry.Name()},
		})
		if len(cards) == maxCards {
			break
		}
	}
	return cards, nil
}

// summarize extracts the first heading and the first non-heading paragraph.
func summarize(content string) (header, excerpt string) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if header == "" {
				header = strings.TrimSpace(strings.TrimLeft(line, "# "))
			}
			continue
		}
		excerpt = line
		break
	}
	if len(excerpt) > maxExcerpt {
		excerpt = excerpt[:maxExcerpt] + "..."
	}
	return header, excerpt
}
