package assistant

import (
	"reflect"
	"strings"
	"testing"
)

func TestRespondIsDeterministic(t *testing.T) {
	first := Respond("Can you help me deploy?")
	second := Respond("Can you help me deploy?")
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same input produced different replies")
	}
}

func TestRespondMatchesDeployBranch(t *testing.T) {
	reply := Respond("Can you help me deploy?")
	if !strings.Contains(strings.ToLower(reply.Text), "deploy") {
		t.Fatalf("deploy branch text = %q", reply.Text)
	}
	if len(reply.Suggestions) == 0 {
		t.Fatal("deploy branch has no suggestions")
	}
	if len(reply.ActionItems) == 0 {
		t.Fatal("deploy branch has no action items")
	}
}

func TestRespondPrecedenceDeployBeforeError(t *testing.T) {
	combined := Respond("I got an error during deploy")
	deployOnly := Respond("deploy")
	if combined.Text != deployOnly.Text {
		t.Fatalf("combined message resolved to %q, want the deploy branch", combined.Text)
	}
}

func TestRespondBranchSelection(t *testing.T) {
	cases := []struct {
		message string
		marker  string
	}{
		{"there is a problem with my build", "troubleshoot"},
		{"how do I set an env var", "Environment Variables"},
		{"optimize my app please", "optimization opportunities"},
		{"is my project security hardened", "Security is important"},
		{"set up my pipeline", "GitHub Actions"},
		{"hi there", "OmniInfra AI assistant"},
	}
	for _, tc := range cases {
		reply := Respond(tc.message)
		if !strings.Contains(reply.Text, tc.marker) {
			t.Fatalf("message %q: reply %q missing %q", tc.message, reply.Text, tc.marker)
		}
	}
}

func TestRespondDefaultEchoesMessage(t *testing.T) {
	reply := Respond("quantum teapots")
	if !strings.Contains(reply.Text, `"quantum teapots"`) {
		t.Fatalf("default reply does not echo input: %q", reply.Text)
	}
}

func TestRespondEmptyStringUsesDefault(t *testing.T) {
	reply := Respond("")
	if !strings.Contains(reply.Text, "What specific aspect") {
		t.Fatalf("empty input reply = %q", reply.Text)
	}
}
