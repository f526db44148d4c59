// Package cli implements the interactive line-oriented command interpreter
// over the inventory service.
//
// Each command runs to completion before the next line is read. Quoted
// multi-word arguments are supported ("DC-DC Buck Converter"). User-input
// problems are reported and abort only the current command; the loop keeps
// running.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	shellwords "github.com/mattn/go-shellwords"

	"github.com/partkeep/partkeep/pkg/application/services"
	"github.com/partkeep/partkeep/pkg/domain/entities"
)

const helpText = `Commands:
  help
  exit | quit

  add
      Interactive add prompt. Merges duplicates by spec (category+name+V-range+I-range).

  list [category]
      list            -> all
      list Sensor     -> only Sensor

  search <keywords...> [--cat <category>]
      search resistor 10k
      search dht --cat Sensor

  show <id>
      show 3

  remove <id> [-n <decrement>]
      remove 3        -> delete item
      remove 3 -n 2   -> decrement qty by 2 (removes if hits 0)

  edit <id>
      Interactive edit for an item.

Tips:
  - Put names with spaces in quotes: add then Name: "DC-DC Buck Converter"
`

// REPL reads commands from a line-oriented input and executes them against
// the inventory service.
type REPL struct {
	svc    *services.InventoryService
	in     io.Reader
	out    io.Writer
	lines  chan string
	parser *shellwords.Parser
	dbPath string
}

// New creates a REPL over the given service. dbPath is only used for the
// startup banner.
func New(svc *services.InventoryService, in io.Reader, out io.Writer, dbPath string) *REPL {
	return &REPL{
		svc:    svc,
		in:     in,
		out:    out,
		lines:  make(chan string),
		parser: shellwords.NewParser(),
		dbPath: dbPath,
	}
}

// Run blocks reading commands until exit/quit, end of input, or ctx
// cancellation. Interrupting the input wait exits cleanly.
func (r *REPL) Run(ctx context.Context) error {
	abs, err := filepath.Abs(r.dbPath)
	if err != nil {
		abs = r.dbPath
	}
	fmt.Fprintln(r.out, "Electrical Inventory CLI")
	fmt.Fprintf(r.out, "DB: %s\n", abs)
	fmt.Fprintln(r.out, "Type 'help' for commands.")
	fmt.Fprintln(r.out)

	go func() {
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case r.lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		close(r.lines)
	}()

	for {
		fmt.Fprint(r.out, "> ")
		line, ok := r.readLine(ctx)
		if !ok {
			fmt.Fprintln(r.out, "\nExiting.")
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if quit := r.dispatch(ctx, line); quit {
			return nil
		}
	}
}

// readLine waits for the next input line. ok is false when input is closed
// or the context is cancelled.
func (r *REPL) readLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-r.lines:
		return line, ok
	}
}

// dispatch tokenizes one command line and runs the matching action.
// Returns true when the loop should stop.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	args, err := r.parser.Parse(line)
	if err != nil {
		fmt.Fprintf(r.out, "Parse error: %v\n", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch cmd := strings.ToLower(args[0]); cmd {
	case "exit", "quit":
		return true
	case "help":
		fmt.Fprint(r.out, helpText)
	case "add":
		r.cmdAdd(ctx)
	case "list":
		category := ""
		if len(args) >= 2 {
			category = args[1]
		}
		r.cmdList(category)
	case "search":
		r.cmdSearch(args[1:])
	case "show":
		if len(args) != 2 {
			fmt.Fprintln(r.out, "Usage: show <id>")
			break
		}
		r.cmdShow(args[1])
	case "remove":
		r.cmdRemove(args[1:])
	case "edit":
		if len(args) != 2 {
			fmt.Fprintln(r.out, "Usage: edit <id>")
			break
		}
		r.cmdEdit(ctx, args[1])
	default:
		fmt.Fprintln(r.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return false
}

func (r *REPL) cmdAdd(ctx context.Context) {
	category, ok := r.prompt(ctx, "Category (Power/Sensor/Conductor/etc)")
	if !ok {
		return
	}
	name, ok := r.prompt(ctx, "Name")
	if !ok {
		return
	}
	voltage, ok := r.promptRange(ctx, "Voltage", "1-24", "V")
	if !ok {
		return
	}
	current, ok := r.promptRange(ctx, "Current", "0-1", "A")
	if !ok {
		return
	}
	qty, ok := r.promptInt(ctx, "Quantity", 1)
	if !ok {
		return
	}
	notes, ok := r.promptDefault(ctx, "Notes (optional)", "")
	if !ok {
		return
	}

	part, err := entities.NewPart(category, name, voltage, current, qty, notes)
	if err != nil {
		r.reportErr(err)
		return
	}
	res, err := r.svc.Add(*part)
	if err != nil {
		r.reportErr(err)
		return
	}
	if res.Merged {
		fmt.Fprintf(r.out, "Merged with existing item. New quantity: %d\n", res.Quantity)
	} else {
		fmt.Fprintf(r.out, "Added. id=%d\n", res.ID)
	}
}

func (r *REPL) cmdList(category string) {
	items, err := r.svc.List(category)
	if err != nil {
		r.reportErr(err)
		return
	}
	writeTable(r.out, partRows(items))
}

func (r *REPL) cmdSearch(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "Usage: search <keywords...> [--cat <category>]")
		return
	}

	category := ""
	keywords := []string{}
	for i := 0; i < len(args); i++ {
		if args[i] == "--cat" && i+1 < len(args) {
			category = args[i+1]
			i++
			continue
		}
		keywords = append(keywords, args[i])
	}

	items, err := r.svc.Search(keywords, category)
	if err != nil {
		r.reportErr(err)
		return
	}
	writeTable(r.out, partRows(items))
}

func (r *REPL) cmdShow(arg string) {
	id, ok := r.parseID(arg)
	if !ok {
		return
	}
	sp, found, err := r.svc.Get(id)
	if err != nil {
		r.reportErr(err)
		return
	}
	if !found {
		fmt.Fprintln(r.out, "Not found.")
		return
	}
	fmt.Fprintf(r.out, "ID:       %d\n", sp.ID)
	fmt.Fprintf(r.out, "Category: %s\n", sp.Part.Category)
	fmt.Fprintf(r.out, "Name:     %s\n", sp.Part.Name)
	fmt.Fprintf(r.out, "Voltage:  %s\n", sp.Part.Voltage.Format())
	fmt.Fprintf(r.out, "Current:  %s\n", sp.Part.Current.Format())
	fmt.Fprintf(r.out, "Quantity: %d\n", sp.Part.Quantity)
	if sp.Part.Notes != "" {
		fmt.Fprintf(r.out, "Notes:    %s\n", sp.Part.Notes)
	}
}

func (r *REPL) cmdRemove(args []string) {
	if len(args) != 1 && len(args) != 3 {
		fmt.Fprintln(r.out, "Usage: remove <id> [-n <decrement>]")
		return
	}
	id, ok := r.parseID(args[0])
	if !ok {
		return
	}

	if len(args) == 1 {
		res, err := r.svc.Remove(id)
		if err != nil {
			r.reportErr(err)
			return
		}
		if res.Outcome == services.RemoveNotFound {
			fmt.Fprintln(r.out, "Not found.")
			return
		}
		fmt.Fprintln(r.out, "Deleted.")
		return
	}

	if args[1] != "-n" {
		fmt.Fprintln(r.out, "Usage: remove <id> [-n <decrement>]")
		return
	}
	n, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "Invalid decrement %q: expected an integer.\n", args[2])
		return
	}

	res, err := r.svc.Decrement(id, n)
	if err != nil {
		r.reportErr(err)
		return
	}
	switch res.Outcome {
	case services.RemoveNotFound:
		fmt.Fprintln(r.out, "Not found.")
	case services.RemoveDecremented:
		fmt.Fprintf(r.out, "Decremented. New quantity: %d\n", res.Quantity)
	case services.RemoveDeleted:
		fmt.Fprintln(r.out, "Quantity hit 0; removed.")
	}
}

func (r *REPL) cmdEdit(ctx context.Context, arg string) {
	id, ok := r.parseID(arg)
	if !ok {
		return
	}
	sp, found, err := r.svc.Get(id)
	if err != nil {
		r.reportErr(err)
		return
	}
	if !found {
		fmt.Fprintln(r.out, "Not found.")
		return
	}

	p := sp.Part
	category, ok := r.promptDefault(ctx, "Category", p.Category)
	if !ok {
		return
	}
	name, ok := r.promptDefault(ctx, "Name", p.Name)
	if !ok {
		return
	}
	voltage, ok := r.promptRange(ctx, "Voltage", p.Voltage.BoundsText(), p.Voltage.Unit)
	if !ok {
		return
	}
	current, ok := r.promptRange(ctx, "Current", p.Current.BoundsText(), p.Current.Unit)
	if !ok {
		return
	}
	qty, ok := r.promptInt(ctx, "Quantity", p.Quantity)
	if !ok {
		return
	}
	notes, ok := r.promptDefault(ctx, "Notes", p.Notes)
	if !ok {
		return
	}

	part, err := entities.NewPart(category, name, voltage, current, qty, notes)
	if err != nil {
		r.reportErr(err)
		return
	}
	updated, err := r.svc.Update(sp.ID, *part)
	if err != nil {
		r.reportErr(err)
		return
	}
	if !updated {
		fmt.Fprintln(r.out, "Not found.")
		return
	}
	fmt.Fprintln(r.out, "Updated.")
}

// parseID parses an id argument, reporting a message on bad syntax.
func (r *REPL) parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "Invalid id %q: expected an integer.\n", s)
		return 0, false
	}
	return id, true
}

func (r *REPL) reportErr(err error) {
	fmt.Fprintf(r.out, "Error: %v\n", err)
}
