package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fingerprintOf extracts the hex fingerprint from a mock answer.
func fingerprintOf(t *testing.T, answer string) string {
	t.Helper()

	const prefix = "[MockAnswer:"
	require.True(t, strings.HasPrefix(answer, prefix), "unexpected answer format: %q", answer)
	end := strings.Index(answer, "]")
	require.Greater(t, end, len(prefix))
	return answer[len(prefix):end]
}

func TestMockDeterminism(t *testing.T) {
	ctx := context.Background()
	m := NewMockClient("seed-1", "gpt-4o-mini")
	messages := []ChatMessage{
		{Role: "user", Content: "What is the Pythagorean theorem?"},
	}

	first, err := m.Chat(ctx, messages, "gpt-4o-mini")
	require.NoError(t, err)
	second, err := m.Chat(ctx, messages, "gpt-4o-mini")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMockFingerprintVariesWithInputs(t *testing.T) {
	ctx := context.Background()
	messages := []ChatMessage{
		{Role: "user", Content: "What is the Pythagorean theorem?"},
	}

	base, err := NewMockClient("seed-1", "gpt-4o-mini").Chat(ctx, messages, "gpt-4o-mini")
	require.NoError(t, err)
	baseFP := fingerprintOf(t, base)
	assert.Len(t, baseFP, 12)

	otherSeed, err := NewMockClient("seed-2", "gpt-4o-mini").Chat(ctx, messages, "gpt-4o-mini")
	require.NoError(t, err)
	assert.NotEqual(t, baseFP, fingerprintOf(t, otherSeed))

	otherModel, err := NewMockClient("seed-1", "gpt-4o-mini").Chat(ctx, messages, "gpt-4")
	require.NoError(t, err)
	assert.NotEqual(t, baseFP, fingerprintOf(t, otherModel))

	otherMessages := []ChatMessage{
		{Role: "user", Content: "What is the quadratic formula?"},
	}
	otherAnswer, err := NewMockClient("seed-1", "gpt-4o-mini").Chat(ctx, otherMessages, "gpt-4o-mini")
	require.NoError(t, err)
	assert.NotEqual(t, baseFP, fingerprintOf(t, otherAnswer))
}

func TestMockEchoesLastUserQuestion(t *testing.T) {
	ctx := context.Background()
	m := NewMockClient("seed-1", "gpt-4o-mini")

	answer, err := m.Chat(ctx, []ChatMessage{
		{Role: "system", Content: "Context: geometry"},
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "first answer"},
		{Role: "user", Content: "second question"},
	}, "")
	require.NoError(t, err)
	assert.Contains(t, answer, `Q="second question"`)
}

func TestMockNoUserMessage(t *testing.T) {
	ctx := context.Background()
	m := NewMockClient("seed-1", "gpt-4o-mini")

	answer, err := m.Chat(ctx, []ChatMessage{
		{Role: "system", Content: "Context: geometry"},
	}, "")
	require.NoError(t, err)
	assert.NotContains(t, answer, `Q="`)
	assert.Contains(t, answer, "This is a simulated response for testing.")
}

func TestMockTruncatesEcho(t *testing.T) {
	ctx := context.Background()
	m := NewMockClient("seed-1", "gpt-4o-mini")

	long := strings.Repeat("q", 200) + "?"
	answer, err := m.Chat(ctx, []ChatMessage{{Role: "user", Content: long}}, "")
	require.NoError(t, err)

	start := strings.Index(answer, `Q="`)
	require.GreaterOrEqual(t, start, 0)
	echo := answer[start+len(`Q="`) : len(answer)-1]
	assert.Len(t, []rune(echo), 160)
}

func TestMockDefaultModel(t *testing.T) {
	ctx := context.Background()
	m := NewMockClient("seed-1", "gpt-4o-mini")
	messages := []ChatMessage{{Role: "user", Content: "hello there"}}

	explicit, err := m.Chat(ctx, messages, "gpt-4o-mini")
	require.NoError(t, err)
	implicit, err := m.Chat(ctx, messages, "")
	require.NoError(t, err)

	assert.Equal(t, explicit, implicit)
}
