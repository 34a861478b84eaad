package assets

import (
	"strings"
	"testing"

	"github.com/park285/study-arena-go/internal/common/messageprovider"
	amessages "github.com/park285/study-arena-go/internal/studyarena/messages"
)

func TestArenaMessagesYAML_Parses(t *testing.T) {
	provider, err := messageprovider.NewFromYAMLAtPath(ArenaMessagesYAML, "studyarena")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if got := provider.Get(amessages.ErrorGeneric); got == amessages.ErrorGeneric {
		t.Fatalf("expected error.generic to exist")
	}

	names := provider.List(amessages.BotNames)
	if len(names) == 0 {
		t.Fatal("expected bot names to exist")
	}
	for i, name := range names {
		if name == "" {
			t.Errorf("bot name %d must not be empty", i)
		}
	}
}

func TestArenaMessagesYAML_ParamSubstitution(t *testing.T) {
	provider, err := messageprovider.NewFromYAMLAtPath(ArenaMessagesYAML, "studyarena")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	got := provider.Get(amessages.RoomCreated,
		messageprovider.P("name", "어휘 배틀"),
		messageprovider.P("publicId", "abc123"),
	)
	if got == amessages.RoomCreated {
		t.Fatal("expected room.created to exist")
	}
	for _, want := range []string{"어휘 배틀", "abc123"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}
