package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/fadedpez/blackjack/internal/types"
)

// Command is one subcommand of the blackjack binary
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, args []string) error
}

// Registry manages the subcommands and dispatches to them
type Registry struct {
	commands map[string]Command
	mu       sync.RWMutex
}

// NewRegistry creates a new command registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry
func (r *Registry) Register(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[cmd.Name()]; exists {
		return types.NewGameError(types.ErrInvalidAction, fmt.Sprintf("Command %s is already registered", cmd.Name()))
	}

	r.commands[cmd.Name()] = cmd
	return nil
}

// Get returns the command with the given name
func (r *Registry) Get(name string) (Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, exists := r.commands[name]
	if !exists {
		return nil, types.NewGameError(types.ErrCommandNotFound, fmt.Sprintf("Unknown command %q", name))
	}

	return cmd, nil
}

// List returns the registered commands sorted by name
func (r *Registry) List() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		commands = append(commands, cmd)
	}
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name() < commands[j].Name()
	})
	return commands
}

// Dispatch runs the command named by args[0] with the remaining args
func (r *Registry) Dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return types.NewGameError(types.ErrCommandNotFound, "No command given")
	}

	cmd, err := r.Get(args[0])
	if err != nil {
		return err
	}
	return cmd.Run(ctx, args[1:])
}

// Usage writes the command list
func (r *Registry) Usage(w io.Writer, program string) {
	fmt.Fprintf(w, "Usage:\n  %s [command] [flags]\n\nCommands:\n", program)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, cmd := range r.List() {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.Name(), cmd.Description())
	}
	tw.Flush()
	fmt.Fprintf(w, "\nWith no command, %s starts the interactive menu.\n", program)
}

// Func adapts a plain function to Command
type Func struct {
	name        string
	description string
	run         func(ctx context.Context, args []string) error
}

// NewFunc creates a Command from a function
func NewFunc(name, description string, run func(ctx context.Context, args []string) error) *Func {
	return &Func{name: name, description: description, run: run}
}

func (f *Func) Name() string        { return f.name }
func (f *Func) Description() string { return f.description }

func (f *Func) Run(ctx context.Context, args []string) error {
	return f.run(ctx, args)
}
