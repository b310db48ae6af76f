package quorum

import "testing"

func TestConversationAppend(t *testing.T) {
	conv := NewConversation()
	conv.System("You are terse.")
	conv.User("How terse?")
	conv.Assistant("Very.")

	if conv.Len() != 3 {
		t.Fatalf("Expected 3 messages, got %d", conv.Len())
	}

	messages := conv.Messages()
	expected := []Message{
		{Role: RoleSystem, Content: "You are terse."},
		{Role: RoleUser, Content: "How terse?"},
		{Role: RoleAssistant, Content: "Very."},
	}
	for i, msg := range expected {
		if messages[i] != msg {
			t.Errorf("Message %d: expected %+v, got %+v", i, msg, messages[i])
		}
	}
}

func TestConversationMessagesReturnsCopy(t *testing.T) {
	conv := NewConversation()
	conv.User("original")

	messages := conv.Messages()
	messages[0].Content = "mutated"

	if conv.Messages()[0].Content != "original" {
		t.Error("Mutating the returned slice changed the conversation")
	}
}

func TestConversationClear(t *testing.T) {
	conv := NewConversation()
	conv.User("hello")
	conv.Clear()

	if conv.Len() != 0 {
		t.Errorf("Expected empty conversation after Clear, got %d messages", conv.Len())
	}
}

func TestConversationIDUnique(t *testing.T) {
	a := NewConversation()
	b := NewConversation()

	if a.ID() == "" {
		t.Error("Conversation ID is empty")
	}
	if a.ID() == b.ID() {
		t.Error("Two conversations share an ID")
	}
}
