// Package application runs the interactive inventory menu over a line
// oriented reader and writer, so it works on a plain terminal, a pipe, or a
// test buffer alike.
package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/charmbracelet/lipgloss"
)

// Inventory is the subset of *core.Service the session drives.
type Inventory interface {
	ProductIDs(ctx context.Context) (core.IDSet, error)
	Product(ctx context.Context, id int64) (core.Product, error)
	AddProduct(ctx context.Context, name string, quantity, price int64) (core.Product, bool, error)
	Backup(ctx context.Context, path string) (int, error)
}

// Session is one run of the interactive menu.
type Session struct {
	inv        Inventory
	in         *bufio.Reader
	out        io.Writer
	backupPath string
	st         styles
	menu       *Menu
}

// NewSession creates a session reading choices from in and writing to out.
// Backups are written to backupPath.
func NewSession(inv Inventory, in io.Reader, out io.Writer, backupPath string) *Session {
	s := &Session{
		inv:        inv,
		in:         bufio.NewReader(in),
		out:        out,
		backupPath: backupPath,
		st:         newStyles(lipgloss.NewRenderer(out)),
	}
	s.menu = buildMenu(s)
	return s
}

// Run shows the menu until the user quits or input ends, then returns nil.
// Action failures are reported to the user and the menu is shown again.
// Run fails only when ctx is cancelled or reading input fails.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.print(s.menu.render(s.st))
		choice, err := s.prompt("What would you like to do?  ")
		if err != nil {
			return s.end(err)
		}

		item, ok := s.menu.Find(choice)
		if !ok {
			err := s.pause(renderLines(s.st.err, fmt.Sprintf("\nInvalid input! Please enter %s.", quoteKeys(s.menu.Keys()))) +
				"\nPress enter to try again.")
			if err != nil {
				return s.end(err)
			}
			continue
		}

		err = item.Action(ctx)
		switch {
		case err == nil:
		case errors.Is(err, errQuit), errors.Is(err, core.ErrInputClosed):
			return s.end(err)
		case errors.Is(err, context.Canceled):
			return err
		default:
			slog.Error("menu action failed", "action", item.Key, "error", err)
			msg := core.MapError(err)
			if err := s.pause("\n" + s.st.err.Render(msg.String()) + "\nPress enter to return to menu."); err != nil {
				return s.end(err)
			}
		}
	}
}

// end turns the error that stopped the loop into Run's result.
func (s *Session) end(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, core.ErrInputClosed) {
		return nil
	}
	return err
}

/* ----------------------------------------
	ACTIONS
---------------------------------------- */

func (s *Session) viewProduct(ctx context.Context) error {
	ids, err := s.inv.ProductIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return s.pause("\nThe inventory is empty. Press enter to return to menu.")
	}

	var id int64
	for {
		line, err := s.prompt(fmt.Sprintf("\nID options: %v\nEnter the product ID of the item you would like to view:  ", ids.Sorted()))
		if err != nil {
			return err
		}

		id, err = core.ParseProductID(line, ids)
		if err == nil {
			break
		}

		msg := "\nInvalid input, please enter a number from the ID options."
		if core.IsNotFound(err) {
			msg = "\nThere is no product associated with this ID.\nPlease choose an ID from the ID Options."
		}
		if err := s.pause(renderLines(s.st.err, msg) + "\nPress enter to try again."); err != nil {
			return err
		}
	}

	p, err := s.inv.Product(ctx, id)
	if err != nil {
		return err
	}

	s.print("\n" + s.renderProduct(p))
	return s.pause("\nPress enter to return to menu.")
}

func (s *Session) renderProduct(p core.Product) string {
	rows := [][2]string{
		{"Product", p.Name},
		{"Quantity", fmt.Sprint(p.Quantity)},
		{"Price", core.FormatPrice(p.Price)},
		{"Date Updated", core.DisplayDate(p.LastUpdated)},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(s.st.field.Render(r[0]+":") + " " + r[1] + "\n")
	}
	return b.String()
}

func (s *Session) addProduct(ctx context.Context) error {
	s.print("\n")

	var name string
	for {
		line, err := s.prompt("Product name:  ")
		if err != nil {
			return err
		}
		if core.ValidateName(line) == nil {
			name = line
			break
		}
		s.print(s.st.err.Render("Invalid input. The product must be given a name.") + "\n")
	}

	var quantity int64
	for {
		line, err := s.prompt("Quantity:  ")
		if err != nil {
			return err
		}
		if quantity, err = core.ParseQuantity(line); err == nil {
			break
		}
		s.print(s.st.err.Render("Invalid input. Please enter a whole number.") + "\n")
	}

	var price int64
	for {
		line, err := s.prompt("Price:  ")
		if err != nil {
			return err
		}
		if price, err = core.ParsePrice(line); err == nil {
			break
		}
		s.print(renderLines(s.st.err, "Invalid input. Please enter a number without including the currency symbol.\nFor example, '10.99'.") + "\n")
	}

	_, created, err := s.inv.AddProduct(ctx, name, quantity, price)
	if err != nil {
		return err
	}

	if created {
		return s.pause(s.st.notice.Render("New product added!") + " Press enter to return to menu.")
	}
	return s.pause(s.st.notice.Render("Existing product info updated!") + " Press enter to return to menu.")
}

func (s *Session) backup(ctx context.Context) error {
	n, err := s.inv.Backup(ctx, s.backupPath)
	if err != nil {
		return err
	}
	return s.pause("\n" + s.st.notice.Render(fmt.Sprintf("Backup has been created (%d products in %s).", n, s.backupPath)) +
		" Press enter to return to menu.")
}

func (s *Session) quit(context.Context) error {
	s.print("\nGoodbye!\n\n")
	return errQuit
}

/* ----------------------------------------
	INPUT / OUTPUT
---------------------------------------- */

// prompt writes label and reads one line without its line ending.
// Returns core.ErrInputClosed once input is exhausted.
func (s *Session) prompt(label string) (string, error) {
	s.print(label)

	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", core.ErrInputClosed
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// pause shows msg and waits for Enter.
func (s *Session) pause(msg string) error {
	_, err := s.prompt(msg)
	return err
}

func (s *Session) print(text string) {
	fmt.Fprint(s.out, text)
}

func quoteKeys(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = "'" + k + "'"
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
