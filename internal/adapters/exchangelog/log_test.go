package exchangelog

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pilisp/emacs-inf-pilisp/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecordWritesTaggedFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	log := New(zap.New(core))
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, log.Record(context.Background(), ports.Exchange{
		Session:   "s1",
		Dialect:   "pil",
		Direction: ports.DirectionRequest,
		Text:      "(+ 1 2)\n",
		At:        at,
	}))

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, map[string]any{
		"session": "s1",
		"dialect": "pil",
		"at":      at,
		"text":    "(+ 1 2)\n",
	}, entries[0].ContextMap())
}

func TestOpenAppendsJSONLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "exchanges.log")
	for _, text := range []string{"first", "second"} {
		log, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, log.Record(context.Background(), ports.Exchange{Session: "s1", Direction: ports.DirectionResponse, Text: text}))
		require.NoError(t, log.Close())
	}

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var texts []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		assert.Equal(t, "response", line["msg"])
		texts = append(texts, line["text"].(string))
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{"first", "second"}, texts)
}
