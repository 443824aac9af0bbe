package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	taxfree "github.com/taxfree-rdc/taxfree-go"
	"github.com/taxfree-rdc/taxfree-go/api"
	"github.com/taxfree-rdc/taxfree-go/client"
	"github.com/taxfree-rdc/taxfree-go/session"
	"github.com/taxfree-rdc/taxfree-go/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		return nil
	}

	platform, err := taxfree.New(taxfree.WithLogger(newLogger()))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "login":
		return login(ctx, platform)
	case "logout":
		return logout(ctx, platform)
	case "status":
		return status(platform)
	case "forms":
		return listForms(ctx, platform)
	case "maintenance":
		return maintenanceStatus(ctx, platform)
	case "help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", os.Args[1])
	}
}

func usage() {
	displayAppname("Tax Free RDC")
	fmt.Println("Usage: taxfree <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login        Sign in (email + password, then OTP code)")
	fmt.Println("  logout       Revoke the session and clear local state")
	fmt.Println("  status       Show the current session")
	fmt.Println("  forms        List tax-free forms")
	fmt.Println("  maintenance  Check whether the platform is in maintenance mode")
}

func login(ctx context.Context, platform *taxfree.Platform) error {
	reader := bufio.NewReader(os.Stdin)

	email, err := prompt(reader, "Email: ")
	if err != nil {
		return err
	}
	password, err := prompt(reader, "Password: ")
	if err != nil {
		return err
	}

	challenge, err := platform.Login(ctx, email, password)
	if err != nil {
		return loginError(err)
	}
	if challenge.Detail != "" {
		fmt.Println(challenge.Detail)
	}

	code, err := prompt(reader, "OTP code: ")
	if err != nil {
		return err
	}

	result, err := platform.VerifyOTP(ctx, email, code)
	if err != nil {
		return loginError(err)
	}

	name := email
	if result.User != nil && result.User.FirstName != "" {
		name = result.User.FirstName
	}
	fmt.Printf("Signed in as %s\n", name)
	if result.PasswordChangeRequired {
		fmt.Println("⚠️  A password change is required at next web login.")
	}
	return nil
}

func logout(ctx context.Context, platform *taxfree.Platform) error {
	if !platform.Sessions.IsAuthenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	if err := platform.Logout(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: server logout failed: %s\n", err)
	}
	fmt.Println("Signed out.")
	return nil
}

func status(platform *taxfree.Platform) error {
	if !platform.Sessions.IsAuthenticated() {
		fmt.Println("Not signed in.")
		return nil
	}

	snap := platform.Sessions.Snapshot()
	if snap.User != nil {
		fmt.Printf("User:  %s %s <%s>\n", snap.User.FirstName, snap.User.LastName, snap.User.Email)
		fmt.Printf("Role:  %s\n", snap.User.Role)
	}
	if claims, err := session.PeekClaims(snap.AccessToken); err == nil && !claims.ExpiresAt.IsZero() {
		fmt.Printf("Token: expires %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func listForms(ctx context.Context, platform *taxfree.Platform) error {
	page, err := platform.API.TaxFree.ListForms(ctx, api.ListParams{})
	if err != nil {
		return err
	}

	if len(page.Results) == 0 {
		fmt.Println("No forms.")
		return nil
	}
	fmt.Printf("%-14s %-12s %10s\n", "NUMBER", "STATUS", "REFUND")
	for _, form := range page.Results {
		fmt.Printf("%-14s %-12s %10.2f\n", form.Number, form.Status, form.RefundDue)
	}
	fmt.Printf("(%d of %d)\n", len(page.Results), page.Count)
	return nil
}

// maintenanceStatus probes a cheap public endpoint; the maintenance
// middleware blankets every route, so any response tells the story.
func maintenanceStatus(ctx context.Context, platform *taxfree.Platform) error {
	_, err := platform.API.TaxFree.CheckStatus(ctx, "TF-0000-0000")
	if se, ok := transport.AsStatusError(err); ok {
		if se.Status == http.StatusServiceUnavailable && se.Code() == client.MaintenanceCode {
			msg := platform.Maintenance.Message()
			if msg == "" {
				msg = se.Detail()
			}
			fmt.Printf("Maintenance active: %s\n", msg)
			return nil
		}
		// any other status means the backend is serving traffic
		fmt.Println("Service available.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println("Service available.")
	return nil
}

func loginError(err error) error {
	if se, ok := transport.AsStatusError(err); ok && se.Detail() != "" {
		return errors.New(se.Detail())
	}
	return err
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if parsed, err := zerolog.ParseLevel(os.Getenv("TAXFREE_LOG_LEVEL")); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
