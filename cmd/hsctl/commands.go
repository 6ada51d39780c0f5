package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	reportUser   int64
	reportRating string
	reportStart  string
	reportEnd    string
)

// mailboxesCmd lists the mailboxes visible to the credentials
var mailboxesCmd = &cobra.Command{
	Use:   "mailboxes",
	Short: "List mailboxes",
	RunE:  runMailboxes,
}

func runMailboxes(cmd *cobra.Command, args []string) error {
	mailboxes, err := api.ListMailboxes(cmd.Context())
	if err != nil {
		return err
	}

	if len(mailboxes) == 0 {
		fmt.Println("No mailboxes found.")
		return nil
	}

	fmt.Printf("Found %d mailboxes:\n", len(mailboxes))
	fmt.Println(strings.Repeat("-", 60))
	for _, mailbox := range mailboxes {
		fmt.Printf("• %d  %s <%s>\n", mailbox.ID, mailbox.Name, mailbox.Email)
	}

	return nil
}

// searchCmd searches conversations and collects every result page
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search conversations across all result pages",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	logger.Info().Str("query", query).Msg("Searching conversations")

	conversations, err := api.SearchConversations(cmd.Context(), query)
	if err != nil {
		return err
	}

	if len(conversations) == 0 {
		fmt.Println("No conversations matched the query.")
		return nil
	}

	fmt.Printf("Found %d conversations:\n", len(conversations))
	fmt.Println(strings.Repeat("-", 60))
	for _, conversation := range conversations {
		fmt.Printf("• %d  [%s] %s\n", conversation.ID, conversation.Status, conversation.Subject)
	}

	return nil
}

// reportCmd pulls a happiness ratings report for a user
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fetch a user's happiness ratings report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Int64Var(&reportUser, "user", 0, "user ID to report on (required)")
	reportCmd.Flags().StringVar(&reportRating, "rating", "all", "rating filter (great, ok, not-good, all)")
	reportCmd.Flags().StringVar(&reportStart, "start", "", "report range start, YYYY-MM-DD (default 30 days ago)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "report range end, YYYY-MM-DD (default today)")
	reportCmd.MarkFlagRequired("user")
}

// reportRange resolves the --start/--end flags, defaulting to the last
// 30 days.
func reportRange(startFlag, endFlag string) (time.Time, time.Time, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	var err error
	if startFlag != "" {
		start, err = time.Parse("2006-01-02", startFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if endFlag != "" {
		end, err = time.Parse("2006-01-02", endFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--end %s is before --start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	return start, end, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	start, end, err := reportRange(reportStart, reportEnd)
	if err != nil {
		return err
	}

	rating := reportRating
	if rating == "all" {
		rating = ""
	}

	report, err := api.UserRatingsReport(cmd.Context(), reportUser, rating, start, end)
	if err != nil {
		return err
	}

	fmt.Printf("Ratings for user %d (%s to %s): %d across %d pages\n",
		reportUser, start.Format("2006-01-02"), end.Format("2006-01-02"), report.Count, report.Pages)
	for _, rating := range report.Results {
		fmt.Printf("• %s  customer %d rated %d: %s\n",
			rating.CreatedAt, rating.CustomerID, rating.Rating, rating.Comments)
	}

	return nil
}

// ratelimitCmd reports the most recently observed rate-limit window
var ratelimitCmd = &cobra.Command{
	Use:   "ratelimit",
	Short: "Show observed rate-limit state",
	RunE:  runRatelimit,
}

func runRatelimit(cmd *cobra.Command, args []string) error {
	state, err := api.RateLimits(cmd.Context())
	if err != nil {
		return err
	}

	if !state.Active() {
		fmt.Println("No active rate-limit window observed.")
		return nil
	}

	fmt.Printf("Rate limited until %s (%s remaining)\n",
		state.BlockedUntil.Format(time.RFC3339), state.TimeUntilReset().Round(time.Second))
	return nil
}
