package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestExecuteHelp(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--help"})
	if err := execute(); err != nil {
		t.Fatalf("execute help: %v", err)
	}
	if !strings.Contains(out.String(), "bibfzf [flags] BIBTEX") {
		t.Fatalf("help missing usage line:\n%s", out.String())
	}
}
