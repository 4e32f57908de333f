package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "neurofade/internal/platform/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, dataDir, configPath string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--data", dataDir, "--config", configPath}, args...))
	err := root.Execute()
	return out.String(), err
}

const grantConfig = "permissions:\n  mode: grant\nlog:\n  level: error\n"

func TestFocusRunZeroDurationCompletesAndNotifies(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, grantConfig)

	out, err := runCLI(t, dir, cfg, "focus", "run", "--duration", "0s", "--block", "instagram")
	if err != nil {
		t.Fatalf("focus run: %v", err)
	}
	for _, want := range []string{
		"started 00:00 session blocking [instagram]",
		"Focus Session Complete: Your focus session has ended.",
		"session complete, 0 coins earned",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFocusRunDeniedPermission(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "permissions:\n  mode: deny\nlog:\n  level: error\n")

	_, err := runCLI(t, dir, cfg, "focus", "run", "--duration", "1m")
	if !errors.Is(err, apperrors.ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
}

func TestBlockListPersistsAcrossInvocations(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, grantConfig)

	if _, err := runCLI(t, dir, cfg, "blocklist", "set", "instagram"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := runCLI(t, dir, cfg, "blocklist", "add", "twitter"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := runCLI(t, dir, cfg, "blocklist", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if out != "instagram\ntwitter\n" {
		t.Fatalf("show output = %q", out)
	}

	out, err = runCLI(t, dir, cfg, "blocklist", "catalog")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if !strings.Contains(out, "[x] twitter") || !strings.Contains(out, "[ ] tiktok") {
		t.Fatalf("catalog output = %q", out)
	}
}

func TestPermissionRequestAndStatus(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, grantConfig)

	out, err := runCLI(t, dir, cfg, "permission", "request", "restriction")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if out != "restriction: authorized\n" {
		t.Fatalf("request output = %q", out)
	}

	if _, err := runCLI(t, dir, cfg, "permission", "request", "camera"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("unknown capability err = %v, want ErrInvalidInput", err)
	}

	// A fresh process picks up standing grants without a dialog.
	out, err = runCLI(t, dir, cfg, "permission", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if out != "health\tauthorized\nrestriction\tauthorized\n" {
		t.Fatalf("status output = %q", out)
	}

	denyCfg := writeConfig(t, t.TempDir(), "permissions:\n  mode: deny\nlog:\n  level: error\n")
	out, err = runCLI(t, dir, denyCfg, "permission", "status")
	if err != nil {
		t.Fatalf("status in deny mode: %v", err)
	}
	if out != "health\tunknown\nrestriction\tunknown\n" {
		t.Fatalf("deny mode status output = %q", out)
	}
}

func TestPresetsAndLeaderboard(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, grantConfig)

	out, err := runCLI(t, dir, cfg, "focus", "presets")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	if !strings.Contains(out, "1.5 hours\t1:30:00") {
		t.Fatalf("presets output = %q", out)
	}

	if _, err := runCLI(t, dir, cfg, "account", "login", "alice"); err != nil {
		t.Fatalf("login: %v", err)
	}
	out, err = runCLI(t, dir, cfg, "leaderboard")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if !strings.Contains(out, "» 10. alice") {
		t.Fatalf("leaderboard output = %q", out)
	}
}

func TestAccountLoginPersistsUntilLogout(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, grantConfig)

	if _, err := runCLI(t, dir, cfg, "account", "whoami"); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("whoami before login err = %v, want ErrNotLoggedIn", err)
	}
	out, err := runCLI(t, dir, cfg, "account", "signup", "ada", "--first", "Ada", "--last", "Lovelace")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if out != "ada\tAda Lovelace\twatch not synced\n" {
		t.Fatalf("signup output = %q", out)
	}
	if _, err := runCLI(t, dir, cfg, "account", "sync-watch"); err != nil {
		t.Fatalf("sync-watch: %v", err)
	}
	out, err = runCLI(t, dir, cfg, "account", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if out != "ada\tAda Lovelace\twatch synced\n" {
		t.Fatalf("whoami output = %q", out)
	}

	if _, err := runCLI(t, dir, cfg, "account", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := runCLI(t, dir, cfg, "account", "whoami"); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Fatalf("whoami after logout err = %v, want ErrNotLoggedIn", err)
	}
}

func TestInvalidConfigIsRejected(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "permissions:\n  mode: maybe\n")

	if _, err := runCLI(t, dir, cfg, "focus", "presets"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
