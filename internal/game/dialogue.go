package game

import (
	"fmt"

	"github.com/tatianab/impact-games/internal/models"
)

// Trust bounds for every actor.
const (
	MinTrust = 0
	MaxTrust = 100
)

func clampTrust(v int) int {
	return min(MaxTrust, max(MinTrust, v))
}

// CurrentNode returns the node the walker is on, if a conversation is open.
func CurrentNode(s *Session, e *models.Entry) (models.Actor, models.DialogueNode, bool) {
	if s.Dialogue == nil || e == nil {
		return models.Actor{}, models.DialogueNode{}, false
	}
	a, ok := e.Actor(s.Dialogue.Actor)
	if !ok {
		return models.Actor{}, models.DialogueNode{}, false
	}
	node, ok := a.Nodes[s.Dialogue.Node]
	return a, node, ok
}

// reply follows one edge of the open conversation. Trust is clamped on
// every update. The end sentinel closes the conversation, marks the actor
// interviewed and hands control back to the hub.
func reply(s *Session, g *Game, e *models.Entry, actor string, edge int) (Outcome, error) {
	if s.Dialogue == nil || s.Dialogue.Actor != actor {
		return Outcome{}, fmt.Errorf("%w with %s", ErrNoDialogue, actor)
	}
	a, node, ok := CurrentNode(s, e)
	if !ok {
		return Outcome{}, fmt.Errorf("%w with %s", ErrNoDialogue, actor)
	}
	if edge < 0 || edge >= len(node.Edges) {
		return Outcome{}, fmt.Errorf("%w: reply %d", ErrUnknownOption, edge)
	}
	ed := node.Edges[edge]
	s.Trust[a.ID] = clampTrust(s.Trust[a.ID] + ed.TrustDelta)

	if ed.Next == models.DialogueEnd {
		s.Dialogue = nil
		s.Interviewed[a.ID] = true
		transition(s, g, ScreenHub)
		msg := fmt.Sprintf("Interview with %s complete.", a.Name)
		s.note(msg)
		return Outcome{Kind: OutcomeDialogueEnded, Message: msg, Actor: a.ID}, nil
	}

	s.Dialogue.Node = ed.Next
	next := a.Nodes[ed.Next]
	return Outcome{Kind: OutcomeDialogueAdvanced, Message: next.Text, Actor: a.ID}, nil
}
