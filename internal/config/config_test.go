package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemoPath(t *testing.T) {
	got := MemoPath("/srv/bot/data/plugins", "astrbot_plugin_memo")
	want := "/srv/bot/data/plugins/astrbot_plugin_memo/memos.json"
	if got != want {
		t.Errorf("MemoPath() = %q, want %q", got, want)
	}
	if dir := PluginDir("/srv", "memo"); dir != "/srv/memo" {
		t.Errorf("PluginDir() = %q", dir)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
		{"~/data", filepath.Join(home, "data")},
		{"~", home},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
