package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	boardadapter "github.com/bnema/frontdesk/internal/adapters/render/board"
	"github.com/bnema/frontdesk/internal/application"
	"github.com/bnema/frontdesk/internal/domain"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

const consolePrompt = "frontdesk> "

var errQuit = errors.New("quit")

func newConsoleCmd(app *app) *cobra.Command {
	var (
		script   string
		failFast bool
	)

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Run the desk and read commands from stdin or a script",
		Long: `Run an in-memory desk seeded from the inventory and read one command per line.
Quote names that contain spaces, for example: checkout 17 "Pool" "Pool Stick" --name Ada`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := cmd.InOrStdin()
			interactive := script == ""
			if !interactive {
				f, err := os.Open(script)
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				in = f
			}

			fd, err := app.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			c := &console{
				app:         app,
				fd:          fd,
				out:         cmd.OutOrStdout(),
				interactive: interactive,
				failFast:    failFast,
				lastTick:    app.clock.Now(),
			}
			return c.run(cmd.Context(), in)
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "read commands from this file instead of stdin")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first command that fails")
	return cmd
}

type console struct {
	app         *app
	fd          *frontDesk
	out         io.Writer
	interactive bool
	failFast    bool
	lastTick    time.Time
	writeErr    error
}

func (c *console) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0

	for {
		if c.interactive {
			c.printf("%s", consolePrompt)
		}
		if !scanner.Scan() {
			break
		}
		lineNo++

		err := c.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return c.writeErr
		}
		if err != nil {
			c.printf("error: %v\n", err)
			if c.failFast {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
		if c.writeErr != nil {
			return c.writeErr
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read console input: %w", err)
	}
	return c.writeErr
}

// printf writes to the console output. After the first failed write every
// later call is a no-op and run stops with that error.
func (c *console) printf(format string, args ...any) {
	if c.writeErr != nil {
		return
	}
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		c.writeErr = fmt.Errorf("write console output: %w", err)
	}
}

func (c *console) exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command: %w", err)
	}

	c.tick()

	verbs := c.newVerbTree()
	verbs.SetArgs(args)
	verbs.SetOut(c.out)
	verbs.SetErr(c.out)
	return verbs.ExecuteContext(ctx)
}

// tick raises the time-based notices that came due since the last command.
func (c *console) tick() {
	now := c.app.clock.Now()
	c.fd.notices.SweepOverdue(c.fd.desk.Overdue())
	c.fd.notices.CatchUpHourlyCount(c.lastTick, now)
	c.lastTick = now
}

// newVerbTree builds a fresh command tree for one console line so flag
// values never leak between lines.
func (c *console) newVerbTree() *cobra.Command {
	root := &cobra.Command{
		Use:           "desk",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		c.checkoutVerb(),
		c.bannerVerb("checkin", "Return a session's station and equipment", c.checkIn),
		c.bannerVerb("refresh", "Extend a session unless someone is waiting for its station", c.refresh),
		c.bannerVerb("admit", "Start the session for a ready waitlist entry", c.admit),
		c.bannerVerb("leave", "Remove an entry from the waitlist", c.leave),
		c.boardVerb(),
		c.sessionsVerb(),
		c.waitlistVerb(),
		c.noticesVerb(),
		c.dismissVerb(),
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"exit"},
			Short:   "Leave the console",
			Args:    cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return errQuit
			},
		},
	)

	return root
}

func (c *console) checkoutVerb() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "checkout <banner> <station> [equipment...]",
		Short: "Check out a station with optional equipment, or join the waitlist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.fd.desk.Checkout(cmd.Context(), application.CheckoutCommand{
				Banner:     domain.BannerID(args[0]),
				ClientName: name,
				Station:    args[1],
				Equipment:  args[2:],
			})
			if err != nil {
				return err
			}

			if result.Replaced {
				c.printf("replaced earlier waitlist entry for #%s\n", args[0])
			}
			switch result.Outcome {
			case application.CheckoutStarted:
				s := result.Session
				c.printf("started #%s at %s until %s\n", s.Banner, s.Station, s.EndsAt.Format("15:04"))
			case application.CheckoutWaitlisted:
				e := result.Entry
				c.printf("waitlisted #%s at position %d, ready around %s (%s)\n",
					e.Banner, e.Position, e.EstimatedReadyAt.Format("15:04"), e.WaitText)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "client name shown on the board")
	return cmd
}

func (c *console) bannerVerb(use, short string, run func(context.Context, domain.BannerID) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <banner>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), domain.BannerID(args[0]))
		},
	}
}

func (c *console) checkIn(ctx context.Context, banner domain.BannerID) error {
	if err := c.fd.desk.CheckIn(ctx, banner); err != nil {
		return err
	}
	c.printf("checked in #%s\n", banner)
	return nil
}

func (c *console) refresh(ctx context.Context, banner domain.BannerID) error {
	s, err := c.fd.desk.Refresh(ctx, banner)
	if err != nil {
		return err
	}
	c.printf("refreshed #%s until %s\n", banner, s.EndsAt.Format("15:04"))
	return nil
}

func (c *console) admit(ctx context.Context, banner domain.BannerID) error {
	s, err := c.fd.desk.TryAdmit(ctx, banner)
	if err != nil {
		return err
	}
	c.printf("started #%s at %s until %s\n", banner, s.Station, s.EndsAt.Format("15:04"))
	return nil
}

func (c *console) leave(ctx context.Context, banner domain.BannerID) error {
	if err := c.fd.desk.Leave(ctx, banner); err != nil {
		return err
	}
	c.printf("#%s left the waitlist\n", banner)
	return nil
}

func (c *console) boardVerb() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show pools, sessions, waitlist and notices",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			output, err := c.app.renderBoard(c.fd.board(), boardadapter.RenderOptions{})
			if err != nil {
				return fmt.Errorf("render board: %w", err)
			}
			c.printf("%s\n", output)
			return nil
		},
	}
}

func (c *console) sessionsVerb() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List active sessions",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			sessions := c.fd.desk.Sessions()
			if len(sessions) == 0 {
				c.printf("no active sessions\n")
				return nil
			}
			for _, s := range sessions {
				renew := ""
				if !s.Renewable {
					renew = " (no refresh)"
				}
				c.printf("#%s %s %s%s\n", s.Banner, resourceSummary(s.Station, s.Equipment), s.TimerText, renew)
			}
			return nil
		},
	}
}

func (c *console) waitlistVerb() *cobra.Command {
	return &cobra.Command{
		Use:   "waitlist",
		Short: "List waitlist entries in arrival order",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			entries := c.fd.desk.Waitlist()
			if len(entries) == 0 {
				c.printf("waitlist is empty\n")
				return nil
			}
			for _, e := range entries {
				ready := ""
				if e.Admissible {
					ready = " (ready)"
				}
				c.printf("%d. #%s %s %s%s\n", e.Position, e.Banner, resourceSummary(e.Station, e.Equipment), e.WaitText, ready)
			}
			return nil
		},
	}
}

func (c *console) noticesVerb() *cobra.Command {
	return &cobra.Command{
		Use:   "notices",
		Short: "List notices",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			notices := c.fd.notices.Notices()
			if len(notices) == 0 {
				c.printf("no notices\n")
				return nil
			}
			for _, n := range notices {
				c.printf("[%d] %s\n", n.ID, n)
			}
			return nil
		},
	}
}

func (c *console) dismissVerb() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss [notice-id...]",
		Short: "Dismiss notices by id, or all of them",
		RunE: func(_ *cobra.Command, args []string) error {
			ids := make([]domain.NoticeID, 0, len(args))
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("parse notice id %q: %w", arg, err)
				}
				ids = append(ids, domain.NoticeID(id))
			}

			removed := c.fd.notices.Dismiss(ids...)
			c.printf("dismissed %d notice(s)\n", removed)
			return nil
		},
	}
}

func resourceSummary(station string, equipment []string) string {
	if len(equipment) == 0 {
		return station
	}

	names := make([]string, 0, len(equipment))
	for _, e := range equipment {
		names = append(names, domain.DisplayName(e))
	}
	return station + " + " + strings.Join(names, ", ")
}
