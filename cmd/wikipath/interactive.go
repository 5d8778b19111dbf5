package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"wikipath/internal/models"
	"wikipath/internal/wiki"
)

const menuPrompt = `
Welcome to wikipath, a tool for finding the shortest path between two Wikipedia articles.

Choose your operation:
1: Start a new search
0: Exit
Your choice: `

type titleResolver interface {
	ResolveTitle(ctx context.Context, input string) (models.Title, error)
}

type searchFunc func(ctx context.Context, start, target models.Title) error

// prompter drives the interactive menu over line-oriented input.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// ask prints prompt and returns the next trimmed input line. It returns
// io.EOF once input is exhausted.
func (p *prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// loop shows the menu until the user exits or input ends. Only search
// errors that should stop the program are returned.
func (p *prompter) loop(ctx context.Context, resolve titleResolver, search searchFunc) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, err := p.ask(menuPrompt)
		if err != nil {
			return ignoreEOF(err)
		}

		switch choice {
		case "0":
			fmt.Fprintln(p.out, "Exiting program...")
			return nil
		case "1":
			if err := p.newSearch(ctx, resolve, search); err != nil {
				return ignoreEOF(err)
			}
		default:
			fmt.Fprintln(p.out, "Please type 0 or 1!")
		}
	}
}

func (p *prompter) newSearch(ctx context.Context, resolve titleResolver, search searchFunc) error {
	startInput, err := p.ask("Give the name of the starting article: ")
	if err != nil {
		return err
	}
	targetInput, err := p.ask("Give the name of the finishing article: ")
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, "\nValidating given articles' existence...")
	start, ok, err := p.pickTitle(ctx, resolve, startInput)
	if err != nil || !ok {
		return err
	}
	target, ok, err := p.pickTitle(ctx, resolve, targetInput)
	if err != nil || !ok {
		return err
	}
	return search(ctx, start, target)
}

// pickTitle resolves input, asking the user to choose when the lookup
// returns several candidates. ok is false when nothing was chosen.
func (p *prompter) pickTitle(ctx context.Context, resolve titleResolver, input string) (models.Title, bool, error) {
	title, err := resolve.ResolveTitle(ctx, input)
	if err == nil {
		return title, true, nil
	}

	var ambiguous *wiki.AmbiguousTitleError
	switch {
	case errors.Is(err, wiki.ErrTitleNotFound):
		fmt.Fprintf(p.out, "Input '%s' didn't match any articles. Cancelling operation...\n", input)
		return "", false, nil
	case errors.As(err, &ambiguous):
	default:
		fmt.Fprintf(p.out, "Looking up '%s' failed: %v\n", input, err)
		return "", false, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nDidn't find an article matching exact string '%s', did you mean one of these articles:\n", input)
	for i, s := range ambiguous.Suggestions {
		fmt.Fprintf(&b, "%d: %s\n", i+1, s)
	}
	b.WriteString("0: None of the above.\nPlease input a number representing your intent: ")

	for {
		answer, err := p.ask(b.String())
		if err != nil {
			return "", false, err
		}
		n, convErr := strconv.Atoi(answer)
		switch {
		case convErr != nil || n < 0 || n > len(ambiguous.Suggestions):
			fmt.Fprintf(p.out, "Please give a whole number between 0 and %d\n", len(ambiguous.Suggestions))
		case n == 0:
			fmt.Fprintln(p.out, "Didn't find requested article. Cancelling operation...")
			return "", false, nil
		default:
			return ambiguous.Suggestions[n-1], true, nil
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
