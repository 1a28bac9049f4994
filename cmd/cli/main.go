package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iho/gobooks/internal/adapter/http/dto"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// apiClient talks to the gobooks HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
	output  string
}

// apiError is a non-2xx answer from the API.
type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Body.Error, e.Status, e.Body.Message)
	}
	return fmt.Sprintf("%s (status %d)", e.Body.Error, e.Status)
}

// do sends body as JSON and decodes the answer into out. A non-2xx answer
// is still decoded into out when it parses, and is returned as an *apiError.
func (c *apiClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, strings.TrimRight(c.baseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		if json.Unmarshal(raw, &apiErr.Body) != nil || apiErr.Body.Error == "" {
			apiErr.Body.Error = strings.TrimSpace(string(raw))
		}
		if out != nil {
			_ = json.Unmarshal(raw, out)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
		output  string
	)
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:          "gobooks-cli",
		Short:        "gobooks CLI tool",
		Long:         `A command line interface for interacting with the gobooks bookkeeping API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output format %q: want json or yaml", output)
			}
			client.baseURL = baseURL
			client.http = &http.Client{Timeout: timeout}
			client.output = output
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the gobooks API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "json", "Format for structured output (json, yaml)")

	rootCmd.AddCommand(
		newAccountsCmd(client),
		newJournalCmd(client),
		newReportCmd(client),
		newLedgerCmd(client),
	)

	return rootCmd
}

func newAccountsCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account registry operations",
	}

	var categories []string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/accounts/"
			if len(categories) > 0 {
				path += "?" + url.Values{"category": {strings.Join(categories, ",")}}.Encode()
			}

			var resp dto.ListAccountsResponse
			if err := client.do(http.MethodGet, path, nil, &resp); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY")
			for _, a := range resp.Accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, truncate(a.Name, 40), a.Category)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringSliceVar(&categories, "category", nil, "Only list accounts in these categories")

	var category string
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Register an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.AccountResponse
			err := client.do(http.MethodPost, "/api/v1/accounts/", dto.CreateAccountRequest{
				Name:     args[0],
				Category: category,
			}, &resp)
			if err != nil {
				return err
			}
			return client.print(cmd.OutOrStdout(), resp)
		},
	}
	createCmd.Flags().StringVar(&category, "category", "", "Account category (asset, liability, capital, revenue, expense, drawing)")

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.AccountResponse
			if err := client.do(http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, &resp); err != nil {
				return err
			}
			return client.print(cmd.OutOrStdout(), resp)
		},
	}

	cmd.AddCommand(listCmd, createCmd, getCmd)
	return cmd
}

func newJournalCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Journal operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every journal line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListJournalResponse
			if err := client.do(http.MethodGet, "/api/v1/journal/", nil, &resp); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tACCOUNT\tTYPE\tAMOUNT\tPARTICULAR")
			for _, l := range resp.Lines {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.Date, l.AccountID, l.TransactionType, l.Amount.String(), truncate(l.Particular, 40))
			}
			return w.Flush()
		},
	}

	var (
		date    string
		debits  []string
		credits []string
	)
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record a journal entry",
		Long: `Record a journal entry. Lines are given as ACCOUNT:AMOUNT[:PARTICULAR],
for example --debit 01HABC:500 --credit 01HXYZ:500:"January sales".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.RecordEntryRequest{Date: date}

			for _, raw := range debits {
				l, err := parseLine(raw)
				if err != nil {
					return err
				}
				req.Debit = append(req.Debit, l)
			}
			for _, raw := range credits {
				l, err := parseLine(raw)
				if err != nil {
					return err
				}
				req.Credit = append(req.Credit, l)
			}

			var resp dto.MessageResponse
			if err := client.do(http.MethodPost, "/api/v1/journal/", req, &resp); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	recordCmd.Flags().StringVar(&date, "date", time.Now().UTC().Format("2006-01-02"), "Entry date (YYYY-MM-DD)")
	recordCmd.Flags().StringArrayVar(&debits, "debit", nil, "Debit line ACCOUNT:AMOUNT[:PARTICULAR] (repeatable)")
	recordCmd.Flags().StringArrayVar(&credits, "credit", nil, "Credit line ACCOUNT:AMOUNT[:PARTICULAR] (repeatable)")

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every journal line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the journal without --yes")
			}

			var resp dto.ClearJournalResponse
			if err := client.do(http.MethodDelete, "/api/v1/journal/", nil, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d journal lines\n", resp.DeletedCount)
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&yes, "yes", false, "Confirm clearing the journal")

	cmd.AddCommand(listCmd, recordCmd, clearCmd)
	return cmd
}

func newReportCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Derived reports",
	}

	ledgerCmd := &cobra.Command{
		Use:   "ledger ACCOUNT_ID",
		Short: "Show an account's ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.LedgerResponse
			if err := client.do(http.MethodGet, "/api/v1/journal/ledger/"+url.PathEscape(args[0]), nil, &resp); err != nil {
				return err
			}
			return client.print(cmd.OutOrStdout(), resp)
		},
	}

	trialCmd := &cobra.Command{
		Use:   "trial",
		Short: "Show the trial balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []dto.TrialBalanceRowResponse
			if err := client.do(http.MethodGet, "/api/v1/journal/trial", nil, &rows); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "ACCOUNT\tBALANCE\tTYPE\t")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t\n", truncate(r.Account, 40), r.Balance.StringFixed(2), r.Type)
			}
			return w.Flush()
		},
	}

	incomeCmd := &cobra.Command{
		Use:   "income",
		Short: "Show the income statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.IncomeStatementResponse
			if err := client.do(http.MethodGet, "/api/v1/journal/income", nil, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSection(out, "Revenue", resp.Revenue, resp.TotalRevenue)
			printSection(out, "Expense", resp.Expense, resp.TotalExpense)
			return nil
		},
	}

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the balance sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.BalanceSheetResponse
			if err := client.do(http.MethodGet, "/api/v1/journal/balance", nil, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSection(out, "Assets", resp.Assets, resp.TotalAsset)
			printSection(out, "Liabilities", resp.Liabilities, resp.TotalLiability)
			return nil
		},
	}

	cmd.AddCommand(ledgerCmd, trialCmd, incomeCmd, balanceCmd)
	return cmd
}

func newLedgerCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that journal debits equal credits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ConsistencyResponse
			err := client.do(http.MethodGet, "/api/v1/journal/consistency", nil, &resp)

			var apiErr *apiError
			if err != nil && !(errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict) {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total debit:  %s\n", resp.TotalDebit.String())
			fmt.Fprintf(out, "Total credit: %s\n", resp.TotalCredit.String())
			if !resp.Consistent {
				fmt.Fprintln(out, "Consistency check FAILED")
				return fmt.Errorf("journal is inconsistent")
			}
			fmt.Fprintln(out, "Consistency check PASSED")
			return nil
		},
	}

	cmd.AddCommand(consistencyCmd)
	return cmd
}

// parseLine reads ACCOUNT:AMOUNT[:PARTICULAR].
func parseLine(raw string) (dto.EntryLineRequest, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 || parts[0] == "" {
		return dto.EntryLineRequest{}, fmt.Errorf("invalid line %q: want ACCOUNT:AMOUNT[:PARTICULAR]", raw)
	}
	amount, err := decimal.NewFromString(parts[1])
	if err != nil {
		return dto.EntryLineRequest{}, fmt.Errorf("invalid amount in line %q: %w", raw, err)
	}

	l := dto.EntryLineRequest{Account: parts[0], Amount: amount}
	if len(parts) == 3 {
		l.Particular = parts[2]
	}
	return l, nil
}

func printSection(w io.Writer, title string, lines []dto.ReportLineResponse, total decimal.Decimal) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t\t\n", title)
	for _, l := range lines {
		fmt.Fprintf(tw, "  %s\t%s\t\n", truncate(l.Account, 40), l.Amount.StringFixed(2))
	}
	fmt.Fprintf(tw, "Total\t%s\t\n", total.StringFixed(2))
	tw.Flush()
}

// print writes a structured response in the selected output format.
func (c *apiClient) print(w io.Writer, v any) error {
	if c.output == "yaml" {
		return printYAML(w, v)
	}
	return printJSON(w, v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printYAML renders v with the same keys as its JSON form.
func printYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
