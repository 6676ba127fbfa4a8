package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryReadsDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dialects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dialects:
  - id: racket
    description: Racket
    command: [racket, -i]
    prompt: '(?m)^> '
    features:
      doc: (describe %s)
      completion: (complete "%s")
`), 0o600))

	repo, err := NewRepository(path)
	require.NoError(t, err)

	dialects, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Dialect{{
		ID:          "racket",
		Description: "Racket",
		Command:     []string{"racket", "-i"},
		Prompt:      `(?m)^> `,
		Features: map[domain.Feature]string{
			domain.FeatureDoc:        "(describe %s)",
			domain.FeatureCompletion: `(complete "%s")`,
		},
	}}, dialects)
}

func TestRepositorySaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dialects.yml")
	repo, err := NewRepository(path)
	require.NoError(t, err)

	dialect := domain.Dialect{
		ID:            "gauche",
		Prompt:        `gosh\$ `,
		HistoryFilter: `^,\w+$`,
		Features:      map[domain.Feature]string{domain.FeatureDoc: "(describe '%s)"},
	}
	require.NoError(t, repo.Save(context.Background(), dialect))

	dialect.Features[domain.FeatureApropos] = "(apropos '%s)"
	require.NoError(t, repo.Save(context.Background(), dialect))

	dialects, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Dialect{dialect}, dialects)
}

func TestRepositoryMissingAndMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo, err := NewRepository(filepath.Join(dir, "none.yaml"))
	require.NoError(t, err)

	dialects, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dialects)

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dialects: [\n"), 0o600))
	repo, err = NewRepository(path)
	require.NoError(t, err)

	_, err = repo.List(context.Background())
	assert.ErrorContains(t, err, "decode dialects file")

	_, err = NewRepository("")
	require.Error(t, err)
}
