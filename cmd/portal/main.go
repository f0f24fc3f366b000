// Command portal is a terminal client for the placement hub API. It drives
// the same session and view-state machinery the web frontend uses, which
// makes it handy for poking at a deployment without a browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"placementhub/internal/auth"
	"placementhub/internal/client"
	"placementhub/internal/config"
	"placementhub/internal/log"
	"placementhub/internal/session"
	"placementhub/internal/viewstate"
)

// tokenSource breaks the construction cycle between the API client and the
// session manager: the client needs tokens before the manager exists.
type tokenSource struct {
	manager *session.Manager
}

func (t *tokenSource) AccessToken(ctx context.Context) (string, error) {
	if t.manager == nil {
		return "", nil
	}
	return t.manager.AccessToken(ctx)
}

func main() {
	email := flag.String("email", "", "institutional email to sign in with")
	password := flag.String("password", "", "password for -email")
	companyID := flag.Int64("company", 0, "show a single company instead of the dashboard")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := log.NewWithOutput(cfg.Environment, os.Stderr)

	provider, err := auth.NewProvider(cfg.Auth, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("auth provider init failed")
	}

	tokens := &tokenSource{}
	api := client.New(cfg.Backend, tokens, logger)
	manager := session.NewManager(provider, api, logger)
	tokens.manager = manager

	manager.Subscribe(func(state session.State) {
		logger.Info().Str("state", string(state)).Msg("session state changed")
	})
	api.SetUnauthorizedHandler(func() {
		logger.Warn().Msg("session expired, signing out")
		_ = manager.SignOut(context.Background())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *email != "" {
		if err := manager.SignIn(ctx, *email, *password); err != nil {
			logger.Fatal().Err(err).Msg("sign in failed")
		}
		if profile := manager.Profile(); profile != nil {
			fmt.Printf("signed in as %s (%d points)\n\n", profile.Email, profile.Points)
		}
	}

	if *companyID > 0 {
		showCompany(ctx, api, *companyID, logger)
		return
	}
	showDashboard(ctx, api, logger)
}

func showDashboard(ctx context.Context, api *client.Client, logger zerolog.Logger) {
	dash := viewstate.NewDashboard(api, logger)
	defer dash.Close()

	dash.Refresh(ctx)

	branches, _, err := dash.Branches.Snapshot()
	printSection("Branches", err)
	for _, b := range branches {
		fmt.Printf("  %s\n", b.Name)
	}

	companies, _, err := dash.Companies.Snapshot()
	printSection("Companies", err)
	for _, c := range companies {
		fmt.Printf("  %-30s %-8s %d experiences\n", c.Name, c.Tier, c.ExperiencesCount)
	}

	posts, _, err := dash.RecentPosts.Snapshot()
	printSection("Recent posts", err)
	for _, p := range posts {
		fmt.Printf("  #%-5d %-40s %+d\n", p.ID, p.Topic, p.NetScore)
	}
}

func showCompany(ctx context.Context, api *client.Client, id int64, logger zerolog.Logger) {
	view := viewstate.NewCompanyView(api, id, logger)
	defer view.Close()

	view.Refresh(ctx)

	detail, _, err := view.Detail.Snapshot()
	printSection("Company "+strconv.FormatInt(id, 10), err)
	for _, c := range detail {
		fmt.Printf("  %s  tier=%s  salary=%s\n", c.Name, c.Tier, c.SalaryRange)
	}

	experiences, _, err := view.Experiences.Snapshot()
	printSection("Experiences", err)
	for _, e := range experiences {
		fmt.Printf("  #%-5d %-30s %s  difficulty=%d  +%d\n",
			e.ID, e.Position, e.Result, e.DifficultyLevel, e.Upvotes)
	}
}

func printSection(title string, err error) {
	fmt.Printf("%s:\n", title)
	if err != nil {
		fmt.Printf("  (unavailable: %v)\n", err)
	}
}
