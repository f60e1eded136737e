package command

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd("test")
	want := []string{"login", "channels", "chat", "dm", "post", "read", "search", "invitations"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %s", name)
		}
	}
}

func TestRootVersionTemplate(t *testing.T) {
	root := NewRootCmd("1.2.3")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "huddle version 1.2.3") {
		t.Errorf("version output = %q", got)
	}
}

func TestChatRejectsBadChannelID(t *testing.T) {
	root := NewRootCmd("test")
	root.SetArgs([]string{"chat", "not-a-number"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "bad channel id") {
		t.Errorf("err = %v", err)
	}
}
