// The dashboard command is the terminal front end: it logs in against the
// API, gates on the stored session, then renders the requested view and
// keeps it fresh until interrupted.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/gradeboard/gradeboard/client"
	"github.com/gradeboard/gradeboard/core/account"
	"github.com/gradeboard/gradeboard/core/ranking"
)

var (
	logger = log.New(os.Stderr, "DASHBOARD : ", log.LstdFlags)

	readPasswordFunc = term.ReadPassword
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:5001", "API base URL.")
		role    = flag.String("role", account.RoleStudent, "Dashboard to open: student or teacher.")
		view    = flag.String("view", "rank", "View to render: rank, result or profile.")
		dataDir = flag.String("data", defaultDataDir(), "Directory holding the saved session.")
		watch   = flag.Bool("watch", false, "Keep the view on screen and poll for changes.")
	)
	flag.Parse()

	if !account.ValidRole(*role) {
		logger.Fatalf("unknown role %q", *role)
	}

	api := client.NewClient(*baseURL)
	store := client.NewFileSessionStore(*dataDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := openSession(ctx, api, store, *role)
	if err != nil {
		logger.Fatal(err)
	}

	ctrl := client.NewController(client.ControllerOptions{
		Fetch:        fetchFor(api, *view, session),
		Render:       renderFor(os.Stdout, *view, session),
		OnError:      reportError,
		Interval:     intervalFor(*view),
		ServerLogout: api.Logout,
		Store:        store,
		Navigate: func(target string) {
			fmt.Printf("\nSigned out. Run the command again to log back in.\n")
		},
	})

	if !*watch {
		if err := ctrl.Refresh(ctx); err != nil {
			os.Exit(1)
		}
		return
	}

	ctrl.Run(ctx, nil)

	// interrupted: leave cleanly, session server-side included
	ctrl.Logout(context.Background())
}

// openSession gates on the stored session and falls back to an interactive
// login when the gate denies.
func openSession(ctx context.Context, api *client.Client, store client.SessionStore, role string) (client.Session, error) {
	gate := client.NewGate(store, api, nil)
	if s, err := gate.Check(ctx, role); err == nil {
		// resumed run: reinstall the saved token so logout can still revoke
		// the server-side session
		api.SetToken(s.Token)
		return s, nil
	}

	// denial already cleared the stale record; ask for credentials
	uname, pwd, err := promptCredentials()
	if err != nil {
		return client.Session{}, err
	}

	s, err := api.Login(ctx, uname, pwd)
	if err != nil {
		return client.Session{}, err
	}
	if s.UserType != role {
		return client.Session{}, fmt.Errorf("this account opens the %s dashboard, not %s", s.UserType, role)
	}
	if err = store.Save(s); err != nil {
		logger.Printf("warning: session not saved: %v", err)
	}
	return s, nil
}

func promptCredentials() (string, string, error) {
	fmt.Print("Username or email: ")
	reader := bufio.NewReader(os.Stdin)
	uname, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}

	fmt.Print("Password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(uname), string(pwd), nil
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "gradeboard")
}

func intervalFor(view string) time.Duration {
	if view == "rank" {
		return client.RankingsPollInterval
	}
	return client.StudentPollInterval
}

func fetchFor(api *client.Client, view string, s client.Session) client.FetchFunc {
	switch view {
	case "result":
		return func(ctx context.Context) (interface{}, error) {
			return api.Result(ctx, s.User.ID)
		}
	case "profile":
		return func(ctx context.Context) (interface{}, error) {
			if s.UserType == account.RoleTeacher {
				return api.Teacher(ctx, s.User.ID)
			}
			return api.Student(ctx, s.User.ID)
		}
	default: // rank
		return func(ctx context.Context) (interface{}, error) {
			data, err := api.Rankings(ctx)
			if err != nil {
				return nil, err
			}
			viewerID := ""
			if s.UserType == account.RoleStudent {
				viewerID = s.User.ID
			}
			return client.BuildPage(data.Rankings, data.Stats, viewerID), nil
		}
	}
}

func renderFor(out *os.File, view string, s client.Session) client.RenderFunc {
	switch view {
	case "result":
		return func(data interface{}) { printResult(out, data.(ranking.Result)) }
	case "profile":
		return func(data interface{}) {
			enc := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(enc, "%+v\n", data)
			_ = enc.Flush()
		}
	default:
		return func(data interface{}) { printPage(out, data.(client.Page)) }
	}
}

func printPage(out *os.File, page client.Page) {
	fmt.Fprintf(out, "\nClass Rankings\n\n")
	for _, st := range page.Stats {
		fmt.Fprintf(out, "  %s: %s\n", st.Label, st.Value)
	}
	fmt.Fprintln(out)

	if page.Empty {
		fmt.Fprintln(out, "  No student records yet.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  RANK\tNAME\tROLL NO\tTOTAL\tPERCENTAGE\tGRADE")
	for _, row := range page.Rows {
		marker := " "
		if row.Highlight {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d %s\t%s\t%s\t%d\t%.2f%%\t%s\n",
			marker, row.Rank, row.Medal, row.Name, row.RollNo, row.TotalMarks, row.Percentage, row.Grade)
	}
	_ = w.Flush()
}

func printResult(out *os.File, res ranking.Result) {
	fmt.Fprintf(out, "\nResult for %s (%s)\n\n", res.Student.Name, res.Student.ID)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  SUBJECT\tMARKS\tGRADE")
	for _, sub := range res.Subjects {
		fmt.Fprintf(w, "  %s\t%d\t%s\n", sub.Name, sub.Marks, sub.Grade)
	}
	_ = w.Flush()

	fmt.Fprintf(out, "\n  Total: %d  Percentage: %.2f%%  Grade: %s  Status: %s\n",
		res.Summary.TotalMarks, res.Summary.Percentage, res.Summary.Grade, res.Summary.Status)
}

func reportError(err *client.Error) {
	if err.Retryable() {
		logger.Printf("refresh failed (%s), will retry on the next poll: %v", err.Kind, err)
		return
	}
	logger.Printf("refresh failed: %v", err)
}
