// trackerctl is a small CLI against the tracker API: it drives the same
// presentation-facing interface the desktop GUI would.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var apiBase string

func main() {
	root := &cobra.Command{
		Use:           "trackerctl",
		Short:         "Manage tracked domains",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	defaultAPI := os.Getenv("TRACKER_API")
	if defaultAPI == "" {
		defaultAPI = "http://127.0.0.1:8080"
	}
	root.PersistentFlags().StringVar(&apiBase, "api", defaultAPI, "tracker API base URL")

	root.AddCommand(
		listCmd(),
		addCmd(),
		removeCmd(),
		currentCmd(),
		checkCmd(),
		statsCmd(),
		scoreCmd(),
		exportCmd(),
		importCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

type entityRow struct {
	URL        string     `json:"url"`
	Status     string     `json:"status"`
	CheckCount int        `json:"check_count"`
	ErrorCount int        `json:"error_count"`
	LastCheck  *time.Time `json:"last_check"`
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []entityRow
			if err := getJSON("/api/domains", &rows); err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"#", "URL", "Status", "Checks", "Errors", "Last check"})
			for i, r := range rows {
				last := "never"
				if r.LastCheck != nil {
					last = r.LastCheck.Local().Format("2006-01-02 15:04:05")
				}
				t.AppendRow(table.Row{i + 1, r.URL, r.Status, r.CheckCount, r.ErrorCount, last})
			}
			t.Render()
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>",
		Short: "Track a new domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Domain entityRow `json:"domain"`
				Result struct {
					IsAccessible bool   `json:"is_accessible"`
					Message      string `json:"message"`
				} `json:"result"`
				Error string `json:"error"`
			}
			if err := postJSON("/api/domains", map[string]string{"url": args[0]}, &out); err != nil {
				return err
			}
			if out.Error != "" {
				return fmt.Errorf("rejected: %s", out.Error)
			}
			fmt.Printf("added %s (%s: %s)\n", out.Domain.URL, out.Domain.Status, out.Result.Message)
			return nil
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <url>",
		Short: "Stop tracking a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequest(http.MethodDelete,
				apiBase+"/api/domains?url="+url.QueryEscape(args[0]), nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("remove failed: %s", resp.Status)
			}
			fmt.Println("removed", args[0])
			return nil
		},
	}
}

func currentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current (front) domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			var row entityRow
			if err := getJSON("/api/domains/current", &row); err != nil {
				return err
			}
			fmt.Printf("%s (%s)\n", row.URL, row.Status)
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check every tracked domain now",
		RunE: func(cmd *cobra.Command, args []string) error {
			var results map[string]struct {
				IsAccessible bool   `json:"is_accessible"`
				Message      string `json:"message"`
			}
			if err := postJSON("/api/check", nil, &results); err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"URL", "Accessible", "Message"})
			for u, r := range results {
				t.AppendRow(table.Row{u, r.IsAccessible, r.Message})
			}
			t.Render()
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-status counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats struct {
				Total    int `json:"total"`
				Active   int `json:"active"`
				Inactive int `json:"inactive"`
				Error    int `json:"error"`
				Unknown  int `json:"unknown"`
			}
			if err := getJSON("/api/domains/statistics", &stats); err != nil {
				return err
			}
			fmt.Printf("total=%d active=%d inactive=%d error=%d unknown=%d\n",
				stats.Total, stats.Active, stats.Inactive, stats.Error, stats.Unknown)
			return nil
		},
	}
}

func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <url>",
		Short: "Show a domain's health score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				URL         string  `json:"url"`
				HealthScore float64 `json:"health_score"`
			}
			if err := getJSON("/api/health-score?url="+url.QueryEscape(args[0]), &out); err != nil {
				return err
			}
			fmt.Printf("%s: %.1f/100\n", out.URL, out.HealthScore)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export the domain list to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]string
			if err := postJSON("/api/export", map[string]string{"path": args[0]}, &out); err != nil {
				return err
			}
			fmt.Println("exported to", out["exported"])
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import domains from an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]int
			if err := postJSON("/api/import", map[string]string{"path": args[0]}, &out); err != nil {
				return err
			}
			fmt.Printf("imported %d domains\n", out["imported"])
			return nil
		},
	}
}

func getJSON(path string, into any) error {
	resp, err := http.Get(apiBase + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(into)
}

func postJSON(path string, payload, into any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := http.Post(apiBase+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if into == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(into)
}
