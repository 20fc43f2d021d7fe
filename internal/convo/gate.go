package convo

import (
	"regexp"
	"strings"
)

// Message is an inbound chat message as seen by the pipeline.
type Message struct {
	RoomID string `json:"room_id"`
	Sender string `json:"sender"` // sender identity, compared against the agent's own
	Origin string `json:"origin"` // where the message came from (e.g. "sms", "web", "landing")
	Text   string `json:"text"`
}

// Origins excluded from extraction. Landing-page chatter is demo traffic and
// system messages are the agent's own plumbing.
var excludedOrigins = map[string]bool{
	"landing": true,
	"system":  true,
}

// Keyword lists the gate scans for before paying for a model call.
var (
	affirmativeWords = []string{
		"yes", "yeah", "yep", "sure", "definitely", "absolutely",
		"attend", "attending", "come", "coming", "join", "joining",
		"count me in", "i'll be there",
	}
	negativeWords = []string{
		"no", "nope", "can't", "cannot", "won't", "unable",
		"decline", "declining", "miss", "skip", "pass",
	}
	personalInfoWords = []string{
		"name", "live", "living", "work", "working", "from", "based", "job",
	}
)

// rsvpPhrase matches an intent verb followed (within the sentence) by an
// attendance noun, e.g. "I'd love to make it to the dinner".
var rsvpPhrase = regexp.MustCompile(`(?i)\b(want|love|like|going|plan|planning|hope|hoping|try|trying|make)\b.*\b(dinner|event|party|gathering|attend|rsvp|it)\b`)

// Gate decides whether a message is worth an extraction call. Pure function
// of the message and the agent identity; no side effects.
type Gate struct {
	AgentID string
}

// Accept returns true when all gate rules pass: sender is not the agent,
// origin is not excluded, at least two words, and at least one domain keyword
// or RSVP phrase is present.
func (g Gate) Accept(msg Message) bool {
	if msg.Sender == "" || msg.Sender == g.AgentID {
		return false
	}
	if excludedOrigins[strings.ToLower(msg.Origin)] {
		return false
	}

	text := strings.TrimSpace(msg.Text)
	if len(strings.Fields(text)) < 2 {
		return false
	}

	lower := strings.ToLower(text)
	for _, kw := range affirmativeWords {
		if containsWord(lower, kw) {
			return true
		}
	}
	for _, kw := range negativeWords {
		if containsWord(lower, kw) {
			return true
		}
	}
	for _, kw := range personalInfoWords {
		if containsWord(lower, kw) {
			return true
		}
	}
	return rsvpPhrase.MatchString(text)
}

// containsWord checks for kw as a whole word (or phrase) inside lower.
func containsWord(lower, kw string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		beforeOK := start == 0 || !isWordChar(lower[start-1])
		afterOK := end == len(lower) || !isWordChar(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '\''
}
