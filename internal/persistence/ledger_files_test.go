package persistence

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestLedgerFilesListOpenWrite(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "tmp", "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"b.csv", "a.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, "tmp", name), []byte("2023-01-01,Cash,x,1,0\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	files := NewLedgerFiles(root)
	names, err := files.List("tmp")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 3 || names[0] != "a.csv" || names[1] != "b.csv" || names[2] != "notes.txt" {
		t.Fatalf("unexpected listing %v", names)
	}

	rc, err := files.Open("tmp/a.csv")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "2023-01-01,Cash,x,1,0\n" {
		t.Fatalf("unexpected content %q", body)
	}

	if err := files.Write("out/accounts.csv", []byte("Account,Balance")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := files.Write("out/accounts.csv", []byte("Account,Balance\nCash,1.00")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(root, "out", "accounts.csv"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "Account,Balance\nCash,1.00" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestLedgerFilesListMissingDir(t *testing.T) {
	if _, err := NewLedgerFiles(t.TempDir()).List("tmp"); err == nil {
		t.Fatalf("expected error for missing input dir")
	}
}
