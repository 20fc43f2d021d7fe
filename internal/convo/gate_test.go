package convo

import "testing"

const testAgentID = "convive-agent"

func TestGateRejectsShortMessages(t *testing.T) {
	g := Gate{AgentID: testAgentID}

	// Keyword-bearing one-word messages still get rejected.
	for _, text := range []string{"yes", "attending", "no", "", "   ", "name"} {
		msg := Message{RoomID: "r1", Sender: "guest", Origin: "sms", Text: text}
		if g.Accept(msg) {
			t.Errorf("message %q has fewer than 2 words, should be rejected", text)
		}
	}
}

func TestGateRejectsSelfMessages(t *testing.T) {
	g := Gate{AgentID: testAgentID}
	msg := Message{RoomID: "r1", Sender: testAgentID, Origin: "sms", Text: "yes I will attend the dinner"}
	if g.Accept(msg) {
		t.Error("agent's own messages must never be extracted")
	}
}

func TestGateRejectsExcludedOrigins(t *testing.T) {
	g := Gate{AgentID: testAgentID}
	for _, origin := range []string{"landing", "system", "Landing"} {
		msg := Message{RoomID: "r1", Sender: "guest", Origin: origin, Text: "yes I will attend"}
		if g.Accept(msg) {
			t.Errorf("origin %q should be excluded", origin)
		}
	}
}

func TestGateKeywords(t *testing.T) {
	g := Gate{AgentID: testAgentID}

	tests := []struct {
		text string
		want bool
	}{
		{"yes please", true},
		{"I cannot make Friday", true},
		{"count me in for sure", true},
		{"my name is Ada", true},
		{"I live in Seattle", true},
		{"I work at the hospital", true},
		{"I'd love to come to the dinner", true},
		{"we are planning to attend", true},
		{"what time is sunset today", false},
		{"the weather is lovely", false},
		{"welcome everyone here", false}, // "come" must match as a whole word
	}

	for _, tt := range tests {
		msg := Message{RoomID: "r1", Sender: "guest", Origin: "sms", Text: tt.text}
		if got := g.Accept(msg); got != tt.want {
			t.Errorf("Accept(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
