package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-bot/internal/notify"
)

func TestRegistry_ResolveFallsBackToBroadcast(t *testing.T) {
	broadcast := notify.ConversationRef{Platform: "telegram", ID: "ops"}
	registry := notify.NewRegistry(broadcast)

	assert.Equal(t, broadcast, registry.Resolve("CST-1"))

	bound := notify.ConversationRef{Platform: "telegram", ID: "1234"}
	registry.Register("CST-1", bound)
	assert.Equal(t, bound, registry.Resolve("CST-1"))

	registry.Forget("CST-1")
	assert.Equal(t, broadcast, registry.Resolve("CST-1"))
}

func TestRegistry_IgnoresEmptyBindings(t *testing.T) {
	registry := notify.NewRegistry(notify.ConversationRef{})

	registry.Register("", notify.ConversationRef{Platform: "api", ID: "x"})
	registry.Register("CST-2", notify.ConversationRef{})

	_, ok := registry.Lookup("")
	assert.False(t, ok)
	_, ok = registry.Lookup("CST-2")
	assert.False(t, ok)
}

func TestRegistry_LookupReportsPresence(t *testing.T) {
	registry := notify.NewRegistry(notify.ConversationRef{})
	registry.Register("CST-3", notify.ConversationRef{Platform: "api", ID: "c"})

	ref, ok := registry.Lookup("CST-3")
	require.True(t, ok)
	assert.Equal(t, "c", ref.ID)
}
