package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	desk "eventDeskProxy/internal/modules/desk/domain"
	"eventDeskProxy/internal/modules/desk/infrastructure"
	events "eventDeskProxy/internal/modules/events/domain"
)

const commandHelp = `  login [user] [db]                 sign in (password is prompted)
  logout                            forget the stored credential
  status                            show the session state
  events                            list events open for registration
  tickets <event>                   list ticket types of an event
  register <event> [ticket] [qty]   register attendees (prompted one by one)
  help                              show this help
  quit                              leave the desk
`

type shell struct {
	client   *infrastructure.ProxyClient
	in       *bufio.Scanner
	out      io.Writer
	logger   *slog.Logger
	password func(prompt string) (string, error)
}

func newShell(client *infrastructure.ProxyClient, in io.Reader, out io.Writer, logger *slog.Logger) *shell {
	sh := &shell{
		client: client,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
	sh.password = sh.readLine
	return sh
}

// Run reads commands until quit or end of input.
func (sh *shell) Run() error {
	fmt.Fprintln(sh.out, "Registration desk. Type 'help' for commands.")
	for {
		fmt.Fprint(sh.out, "desk> ")
		if !sh.in.Scan() {
			fmt.Fprintln(sh.out)
			return sh.in.Err()
		}
		fields := strings.Fields(sh.in.Text())
		if len(fields) == 0 {
			continue
		}
		if quit := sh.dispatch(context.Background(), fields[0], fields[1:]); quit {
			return nil
		}
	}
}

func (sh *shell) dispatch(ctx context.Context, command string, args []string) bool {
	var err error
	switch strings.ToLower(command) {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprint(sh.out, commandHelp)
	case "login":
		err = sh.login(ctx, args)
	case "logout":
		sh.client.Logout()
		fmt.Fprintln(sh.out, "Signed out.")
	case "status":
		sh.status()
	case "events":
		err = sh.events(ctx)
	case "tickets":
		err = sh.tickets(ctx, args)
	case "register":
		err = sh.register(ctx, args)
	default:
		fmt.Fprintf(sh.out, "Unknown command %q. Type 'help'.\n", command)
	}
	if err != nil {
		sh.report(err)
	}
	return false
}

func (sh *shell) login(ctx context.Context, args []string) error {
	cred := events.Credential{}
	if len(args) > 0 {
		cred.User = args[0]
	} else {
		cred.User = sh.ask("User: ")
	}
	if len(args) > 1 {
		cred.Database = args[1]
	}
	password, err := sh.password("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	cred.Password = password

	uid, err := sh.client.Login(ctx, cred)
	if err != nil {
		return err
	}
	sh.logger.Debug("desk signed in", slog.String("credential", cred.String()), slog.Int64("uid", uid))
	fmt.Fprintf(sh.out, "Signed in as %s.\n", strings.TrimSpace(cred.User))
	return nil
}

func (sh *shell) status() {
	session := sh.client.Session()
	cred, ok := session.Credential()
	if !ok {
		fmt.Fprintln(sh.out, "Not signed in.")
		return
	}
	if cred.Database != "" {
		fmt.Fprintf(sh.out, "Signed in as %s on %s.\n", cred.User, cred.Database)
		return
	}
	fmt.Fprintf(sh.out, "Signed in as %s.\n", cred.User)
}

func (sh *shell) events(ctx context.Context) error {
	list, err := sh.client.Events(ctx)
	if err != nil {
		return fmt.Errorf("Failed to load events: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(sh.out, "No events open for registration.")
		return nil
	}
	for _, event := range list {
		line := fmt.Sprintf("%6d  %s", event.ID, event.Name)
		if event.Start != "" {
			line += "  start: " + string(event.Start)
		}
		if event.End != "" {
			line += "  end: " + string(event.End)
		}
		if event.SeatsAvailable.Set {
			line += fmt.Sprintf("  seats: %d", event.SeatsAvailable.Value)
		}
		fmt.Fprintln(sh.out, line)
	}
	return nil
}

func (sh *shell) tickets(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: tickets <event>")
	}
	eventID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return desk.ErrNoEvent
	}
	list, err := sh.client.Tickets(ctx, eventID)
	if err != nil {
		return fmt.Errorf("Failed to load tickets: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(sh.out, "No ticket types for this event.")
		return nil
	}
	for _, ticket := range list {
		line := fmt.Sprintf("%6d  %s", ticket.ID, ticket.Name)
		if ticket.SeatsAvailable.Set {
			line += fmt.Sprintf("  seats: %d", ticket.SeatsAvailable.Value)
		}
		if ticket.Description != "" {
			line += "  " + string(ticket.Description)
		}
		fmt.Fprintln(sh.out, line)
	}
	return nil
}

func (sh *shell) register(ctx context.Context, args []string) error {
	numbers := make([]int64, 3)
	for i := range numbers {
		if i >= len(args) {
			break
		}
		value, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil {
			return fmt.Errorf("usage: register <event> [ticket] [qty]")
		}
		numbers[i] = value
	}
	quantity := 1
	if len(args) > 2 {
		if numbers[2] < 1 {
			return desk.ErrQuantity
		}
		if numbers[2] > desk.MaxQuantity {
			return desk.ErrQuantityLimit
		}
		quantity = int(numbers[2])
	}

	form := desk.NewForm(numbers[0], numbers[1])
	form.Resize(quantity)
	for i := range form.Attendees {
		fmt.Fprintf(sh.out, "Ticket #%d\n", i+1)
		form.Attendees[i] = events.Attendee{
			Name:  sh.ask("  Name: "),
			Email: sh.ask("  Email: "),
			Phone: sh.ask("  Phone (optional): "),
		}
	}

	receipt, err := sh.client.Register(ctx, form)
	if err != nil {
		return err
	}

	ids := make([]string, len(receipt.RegistrationIDs))
	for i, id := range receipt.RegistrationIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	if len(ids) == 0 {
		ids = []string{"(none)"}
	}
	fmt.Fprintf(sh.out, "Registration successful! IDs: %s\n", strings.Join(ids, ", "))
	if receipt.TicketURL != "" {
		fmt.Fprintf(sh.out, "Tickets: %s\n", receipt.TicketURL)
	} else {
		fmt.Fprintln(sh.out, "No ticket download URL returned by the backend.")
	}
	return nil
}

func (sh *shell) report(err error) {
	if errors.Is(err, infrastructure.ErrSignedOut) {
		fmt.Fprintln(sh.out, sh.client.Session().TakeReason())
		return
	}
	if errors.Is(err, infrastructure.ErrNotSignedIn) {
		fmt.Fprintln(sh.out, "Please sign in first (login).")
		return
	}
	fmt.Fprintf(sh.out, "Error: %v\n", err)
}

func (sh *shell) ask(prompt string) string {
	value, _ := sh.readLine(prompt)
	return strings.TrimSpace(value)
}

func (sh *shell) readLine(prompt string) (string, error) {
	fmt.Fprint(sh.out, prompt)
	if !sh.in.Scan() {
		if err := sh.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return sh.in.Text(), nil
}

// terminalPassword reads a password without echo from the controlling terminal.
func terminalPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(password), nil
}
