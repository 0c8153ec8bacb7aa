// Command timetrack is the terminal client for the TimeTrack user API. It
// runs the same validation pipeline the web forms use before any request
// leaves the machine, and keeps the session token under the user's home
// directory between runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/StrayFurther/TimeTrack/internal/client"
	"github.com/StrayFurther/TimeTrack/internal/config"
	"github.com/StrayFurther/TimeTrack/internal/crypto"
	"github.com/StrayFurther/TimeTrack/internal/model"
	"github.com/StrayFurther/TimeTrack/internal/progress"
	"github.com/StrayFurther/TimeTrack/internal/validate"
)

const usage = `usage: timetrack <command> [flags]

commands:
  register   create a new account
  login      log in and store the session token
  logout     drop the stored session token
  whoami     show the logged-in user's profile
  update     change your user name and/or password
  admin      change another user's details (admin only)
  exists     check whether an email is registered
  suggest    print a generated password that satisfies the account policy
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.LoadClient()
	c := client.New(client.Config{
		BaseURL:      cfg.APIURL,
		ClientSecret: cfg.ClientSecret,
		TokenFile:    cfg.TokenFile,
	})

	tracker := progress.NewTracker()
	spin := newSpinner(tracker)
	spin.start()

	err := run(os.Args[1], os.Args[2:], c, tracker)
	spin.stopAndWait()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(command string, args []string, c *client.Client, tracker *progress.Tracker) error {
	ctx := context.Background()

	switch command {
	case "register":
		return runRegister(ctx, args, c, tracker)
	case "login":
		return runLogin(ctx, args, c, tracker)
	case "logout":
		return c.ClearToken()
	case "whoami":
		return runWhoami(ctx, c, tracker)
	case "update":
		return runUpdate(ctx, args, c, tracker)
	case "admin":
		return runAdminUpdate(ctx, args, c, tracker)
	case "exists":
		return runExists(ctx, args, c, tracker)
	case "suggest":
		return runSuggest(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runRegister(ctx context.Context, args []string, c *client.Client, tracker *progress.Tracker) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "user name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	confirm := fs.String("confirm", "", "password confirmation")
	fs.Parse(args)

	if err := validate.Chain(*email, validate.Required, validate.Email); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	if err := validate.Chain(*password, validate.Required, validate.Password); err != nil {
		return fmt.Errorf("password: %w", err)
	}
	if err := validate.MatchPasswords(*password, *confirm); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("name: required")
	}

	// The debounced remote check mirrors the registration form: a taken
	// email fails fast, an unreachable check never blocks registration.
	taken := validate.NewEmailTakenValidator(c.DoesUserExist)
	tracker.Show("Checking email...")
	err := <-taken.Check(ctx, *email)
	tracker.Clear()
	if err != nil && !errors.Is(err, validate.ErrSuperseded) {
		return fmt.Errorf("email: %w", err)
	}

	tracker.Show("Registering...")
	err = c.Register(ctx, model.RegisterRequest{
		UserName: *name,
		Email:    *email,
		Password: *password,
	})
	tracker.Clear()
	if err != nil {
		return err
	}

	fmt.Println("account created, you can log in now")
	return nil
}

func runLogin(ctx context.Context, args []string, c *client.Client, tracker *progress.Tracker) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if err := validate.Chain(*email, validate.Required, validate.Email); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	if err := validate.Required(*password); err != nil {
		return fmt.Errorf("password: %w", err)
	}

	tracker.Show("Logging in...")
	err := c.Login(ctx, model.LoginRequest{Email: *email, Password: *password})
	tracker.Clear()
	if err != nil {
		return err
	}

	fmt.Println("logged in")
	return nil
}

func runWhoami(ctx context.Context, c *client.Client, tracker *progress.Tracker) error {
	tracker.Show("Fetching profile...")
	detail, err := c.FetchActiveUser(ctx)
	tracker.Clear()
	if err != nil {
		return err
	}

	fmt.Printf("name:  %s\nemail: %s\nrole:  %s\n", detail.UserName, detail.Email, detail.Role)

	// The profile picture is non-essential: a fetch failure degrades to
	// "none" rather than failing the command.
	pic, err := c.GetOwnProfilePic(ctx)
	if err != nil {
		fmt.Println("pic:   none")
		return nil
	}
	fmt.Printf("pic:   %d bytes\n", len(pic))
	return nil
}

func runUpdate(ctx context.Context, args []string, c *client.Client, tracker *progress.Tracker) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	name := fs.String("name", "", "new user name")
	password := fs.String("password", "", "new password (empty keeps the current one)")
	confirm := fs.String("confirm", "", "password confirmation")
	fs.Parse(args)

	if *name == "" {
		return errors.New("name: required")
	}
	if err := validate.Password(*password); err != nil {
		return fmt.Errorf("password: %w", err)
	}
	if err := validate.MatchPasswords(*password, *confirm); err != nil {
		return err
	}

	tracker.Show("Updating profile...")
	detail, err := c.UpdateUserDetails(ctx, model.UpdateUserRequest{
		UserName: *name,
		Password: *password,
	})
	tracker.Clear()
	if err != nil {
		return err
	}

	fmt.Printf("updated: %s <%s>\n", detail.UserName, detail.Email)
	return nil
}

func runAdminUpdate(ctx context.Context, args []string, c *client.Client, tracker *progress.Tracker) error {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	id := fs.Int64("id", 0, "target user id")
	name := fs.String("name", "", "new user name")
	role := fs.String("role", string(model.RoleUser), "new role (USER or ADMIN)")
	password := fs.String("password", "", "new password (empty keeps the current one)")
	fs.Parse(args)

	if *id <= 0 {
		return errors.New("id: required")
	}
	if *name == "" {
		return errors.New("name: required")
	}
	if err := validate.Password(*password); err != nil {
		return fmt.Errorf("password: %w", err)
	}

	tracker.Show("Updating user " + strconv.FormatInt(*id, 10) + "...")
	detail, err := c.UpdateUserAdminDetails(ctx, *id, model.AdminUpdateUserRequest{
		UserName: *name,
		Role:     model.Role(*role),
		Password: *password,
	})
	tracker.Clear()
	if err != nil {
		return err
	}

	fmt.Printf("updated: %s <%s> role=%s\n", detail.UserName, detail.Email, detail.Role)
	return nil
}

func runExists(ctx context.Context, args []string, c *client.Client, tracker *progress.Tracker) error {
	fs := flag.NewFlagSet("exists", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	fs.Parse(args)

	if err := validate.Chain(*email, validate.Required, validate.Email); err != nil {
		return fmt.Errorf("email: %w", err)
	}

	tracker.Show("Checking...")
	exists, err := c.DoesUserExist(ctx, *email)
	tracker.Clear()
	if err != nil {
		return err
	}

	fmt.Println(exists)
	return nil
}

func runSuggest(args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	length := fs.Int("length", 16, "password length")
	fs.Parse(args)

	pw, err := crypto.SuggestPassword(*length)
	if err != nil {
		return err
	}

	fmt.Println(pw)
	return nil
}
