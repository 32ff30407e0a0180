package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sonarqube-mcp/internal/sonar"
)

var doctorFormat string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and SonarQube connectivity",
	Long: `Doctor validates your setup end-to-end:

  1. Config — loaded and well-formed?
  2. Credentials — exactly one auth mode configured?
  3. SonarQube server — reachable and accepting the credentials?
  4. Organization — scoping configured (multi-tenant deployments)?

Fix the issues it reports, then run 'sonarqube-mcp serve' with confidence.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "text",
		"output format: text or json")
}

type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok", "warn", "fail"
	Detail string `json:"detail,omitempty"`
}

type doctorResult struct {
	Checks  []doctorCheck `json:"checks"`
	Summary string        `json:"summary"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var checks []doctorCheck

	// 1. Config is already loaded by PersistentPreRunE; being here means it
	// parsed and validated.
	checks = append(checks, doctorCheck{
		Name:   "config",
		Status: "ok",
		Detail: fmt.Sprintf("server %s, transport %s", cfg.URL, cfg.Transport),
	})

	// 2. Credentials
	creds, err := sonar.ResolveCredentials(cfg.Token, cfg.Username, cfg.Password, cfg.Organization)
	if err != nil {
		checks = append(checks, doctorCheck{Name: "credentials", Status: "fail", Detail: err.Error()})
		return report(cmd, checks)
	}
	mode := "token"
	if creds.Token == "" {
		mode = "username/password"
	}
	checks = append(checks, doctorCheck{Name: "credentials", Status: "ok", Detail: mode + " auth"})

	// 3. Server reachability and authentication
	start := time.Now()
	if _, err := sonar.NewClient(cmd.Context(), cfg.URL, creds,
		sonar.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second)); err != nil {
		checks = append(checks, doctorCheck{Name: "server", Status: "fail", Detail: err.Error()})
		return report(cmd, checks)
	}
	checks = append(checks, doctorCheck{
		Name:   "server",
		Status: "ok",
		Detail: fmt.Sprintf("authenticated in %s", time.Since(start).Round(time.Millisecond)),
	})

	// 4. Organization scoping
	if cfg.Organization != "" {
		checks = append(checks, doctorCheck{Name: "organization", Status: "ok", Detail: cfg.Organization})
	} else {
		checks = append(checks, doctorCheck{
			Name:   "organization",
			Status: "warn",
			Detail: "not set; required for multi-tenant deployments such as SonarCloud",
		})
	}

	return report(cmd, checks)
}

func report(cmd *cobra.Command, checks []doctorCheck) error {
	fails, warns := 0, 0
	for _, c := range checks {
		switch c.Status {
		case "fail":
			fails++
		case "warn":
			warns++
		}
	}

	result := doctorResult{
		Checks:  checks,
		Summary: fmt.Sprintf("%d checks, %d failed, %d warnings", len(checks), fails, warns),
	}

	if doctorFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		for _, c := range checks {
			marker := map[string]string{"ok": "✓", "warn": "!", "fail": "✗"}[c.Status]
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-13s %s\n", marker, c.Name, c.Detail)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Summary)
	}

	if fails > 0 {
		return fmt.Errorf("doctor found %d failing check(s)", fails)
	}
	return nil
}
