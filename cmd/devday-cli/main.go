// DevDay CLI - drive a day session from the terminal
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/devday/devday/internal/client"
	"github.com/devday/devday/internal/core"
	"github.com/devday/devday/internal/day"
)

var (
	serverURL string
	api       *client.Client
	cache     *client.Cache
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "devday-cli",
		Short: "DevDay CLI - start your day, log work, end with a summary",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			api = client.New(serverURL)
			if token, err := loadToken(); err == nil {
				api.SetToken(token)
			}
			cache = client.NewCache(api)
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "DevDay server URL")

	rootCmd.AddCommand(
		signupCmd(),
		loginCmd(),
		logoutCmd(),
		statusCmd(),
		startCmd(),
		endCmd(),
		logCmd(),
		dayCmd(),
		recentCmd(),
		goalCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func tokenPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".devday", "cli-token")
}

func loadToken() (string, error) {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func saveToken(token string) error {
	path := tokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0600)
}

func clearToken() {
	os.Remove(tokenPath())
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}

func signupCmd() *cobra.Command {
	var displayName string
	cmd := &cobra.Command{
		Use:   "signup <email>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}

			user, err := api.SignUp(context.Background(), args[0], password, displayName)
			if err != nil {
				return err
			}
			if err := saveToken(api.Token()); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			fmt.Printf("Account created for %s\n", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&displayName, "name", "", "Display name")
	return cmd
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}

			user, err := api.LogIn(context.Background(), args[0], password)
			if err != nil {
				return err
			}
			if err := saveToken(api.Token()); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			fmt.Printf("Logged in as %s\n", user.Email)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := api.LogOut(context.Background())
			clearToken()
			if err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether today's day is started",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cache.CheckDayStatus(context.Background()); err != nil {
				return err
			}
			snap := cache.Snapshot()
			if !snap.HasStartedDay {
				fmt.Println("No day started yet. Run: devday-cli start \"goal one\" \"goal two\"")
				return nil
			}
			fmt.Printf("Day started (id %s)\n", snap.DayEntryID)
			return nil
		},
	}
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <goal> [goal...]",
		Short: "Start today's day with your goals",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := cache.StartDay(context.Background(), args)
			if err != nil {
				return err
			}

			fmt.Printf("Day started with %d goals\n", len(result.Goals.Created))
			for _, failure := range result.Goals.Failed {
				fmt.Printf("  could not save goal %q: %s\n", failure.Input, failure.Reason)
			}

			snap := cache.Snapshot()
			if snap.Detail != nil && snap.Detail.Plan != nil && len(snap.Detail.Plan.Items) > 0 {
				fmt.Println("\nSuggested plan:")
				for _, item := range snap.Detail.Plan.Items {
					fmt.Printf("  %s-%s [%s] %s\n", item.StartTime, item.EndTime, item.Priority, item.Title)
				}
			}
			return nil
		},
	}
}

func endCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End today's day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := cache.CheckDayStatus(ctx); err != nil {
				return err
			}
			if !cache.Snapshot().HasStartedDay {
				return fmt.Errorf("no day started")
			}
			if err := cache.FetchDayData(ctx); err != nil {
				return err
			}

			ended, err := cache.CloseDay(ctx)
			if err != nil {
				return err
			}
			fmt.Println(ended.Notes)
			return nil
		},
	}
}

func logCmd() *cobra.Command {
	activityType := string(core.ActivityTask)
	cmd := &cobra.Command{
		Use:   "log <description>",
		Short: "Log an activity against today's day",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := cache.CheckDayStatus(ctx); err != nil {
				return err
			}
			if !cache.Snapshot().HasStartedDay {
				return fmt.Errorf("no day started")
			}

			description := strings.Join(args, " ")
			activity, err := cache.AddActivity(ctx, core.ActivityType(activityType), description)
			if err != nil {
				return err
			}
			fmt.Printf("Logged %s: %s\n", activity.Type, activity.Description)
			return nil
		},
	}
	cmd.Flags().StringVar(&activityType, "type", string(core.ActivityTask), "Activity type (task, meeting, learning, feedback, reflection)")
	return cmd
}

func dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [id]",
		Short: "Show a day's goals, plan and activities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if len(args) == 1 {
				detail, err := api.Day(ctx, core.DayID(args[0]))
				if err != nil {
					return err
				}
				printDetail(detail)
				return nil
			}

			if err := cache.CheckDayStatus(ctx); err != nil {
				return err
			}
			if !cache.Snapshot().HasStartedDay {
				return fmt.Errorf("no day started")
			}
			if err := cache.FetchDayData(ctx); err != nil {
				return err
			}
			printDetail(cache.Snapshot().Detail)
			return nil
		},
	}
}

func printDetail(detail *day.Detail) {
	d := detail.Day
	fmt.Printf("%s (%s)\n", d.Date, d.Status)
	if d.Notes != "" {
		fmt.Println(d.Notes)
	}

	if len(detail.Goals) > 0 {
		fmt.Println("\nGoals:")
		for _, g := range detail.Goals {
			mark := " "
			if g.Status == core.GoalCompleted {
				mark = "x"
			}
			fmt.Printf("  [%s] %s  (%s)\n", mark, g.Description, g.ID)
		}
	}

	if detail.Plan != nil && len(detail.Plan.Items) > 0 {
		fmt.Println("\nPlan:")
		for _, item := range detail.Plan.Items {
			fmt.Printf("  %s-%s [%s] %s\n", item.StartTime, item.EndTime, item.Priority, item.Title)
		}
	}

	if len(detail.Activities) > 0 {
		fmt.Println("\nActivities:")
		for _, a := range detail.Activities {
			fmt.Printf("  %-10s %s\n", a.Type, a.Description)
		}
	}
}

func recentCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent days",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := api.RecentDays(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(days) == 0 {
				fmt.Println("No days yet")
				return nil
			}

			w := bufio.NewWriter(os.Stdout)
			defer w.Flush()
			for _, d := range days {
				fmt.Fprintf(w, "%s  %-12s  %s\n", d.Date, d.Status, d.Notes)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 7, "How many days to list")
	return cmd
}

func goalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goal <id> <status>",
		Short: "Set a goal's status (active, completed, abandoned)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			goal, err := api.UpdateGoalStatus(context.Background(), core.GoalID(args[0]), core.GoalStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("Goal %q is now %s\n", goal.Description, goal.Status)
			return nil
		},
	}
}
