package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ledgerdesk/backoffice/internal/auth"
	"github.com/ledgerdesk/backoffice/internal/domain"
)

func quietEnv(t *testing.T) {
	t.Helper()
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DB_BACKEND", "")
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")
}

func TestReportsRunWritesOutputs(t *testing.T) {
	quietEnv(t)
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "tmp"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	ledger := "date,account,description,debit,credit\n2022-03-01,Cash,Sale,40,0\n2023-03-01,Cash,Sale,10,0\n"
	if err := os.WriteFile(filepath.Join(root, "tmp", "ledger.csv"), []byte(ledger), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"reports", "run", "yearly", "--root", root})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), `"yearly.csv"`) || !strings.Contains(out.String(), `"completed"`) {
		t.Fatalf("unexpected output %s", out.String())
	}
	got, err := os.ReadFile(filepath.Join(root, "out", "yearly.csv"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "Financial Year,Cash Balance\n2022,40.00\n2023,10.00" {
		t.Fatalf("unexpected report %q", got)
	}
}

func TestReportsRunRejectsUnknownScope(t *testing.T) {
	quietEnv(t)
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"reports", "run", "weekly"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for unknown scope")
	}
}

func TestTokenCommand(t *testing.T) {
	quietEnv(t)
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"token", "--subject", "ops", "--role", "admin"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	claims, err := auth.NewTokenManager("cli-secret", time.Minute).ParseToken(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Subject != "ops" || claims.Role != domain.OperatorRoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestFirstFailureFollowsPipelineOrder(t *testing.T) {
	failed := func(msg string) domain.ProcessState {
		return domain.ProcessState{Status: domain.ProcessStatusError, Error: msg}
	}
	states := map[domain.ReportScope]domain.ProcessState{
		domain.ReportScopeAccounts:           {Status: domain.ProcessStatusCompleted},
		domain.ReportScopeYearly:             failed("no tmp dir"),
		domain.ReportScopeFinancialStatement: failed("bad line"),
	}
	for i := 0; i < 20; i++ {
		err := firstFailure(states)
		if err == nil || err.Error() != "yearly report failed: no tmp dir" {
			t.Fatalf("run %d: unexpected error %v", i, err)
		}
	}
	if err := firstFailure(map[domain.ReportScope]domain.ProcessState{
		domain.ReportScopeAccounts: {Status: domain.ProcessStatusCompleted},
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
