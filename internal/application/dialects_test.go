package application

import (
	"context"
	"errors"
	"testing"

	"github.com/pilisp/emacs-inf-pilisp/internal/domain"
	"github.com/pilisp/emacs-inf-pilisp/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewDialectsRejectsInvalidDialect(t *testing.T) {
	t.Parallel()

	_, err := NewDialects(domain.Dialect{ID: "broken", Prompt: "(", Features: map[domain.Feature]string{domain.FeatureDoc: "%s"}})
	require.ErrorContains(t, err, "compile prompt")
}

func TestDialectsOverrideKeepsOldSnapshots(t *testing.T) {
	t.Parallel()

	dialects, err := NewDialects(testDialect())
	require.NoError(t, err)

	before := dialects.Table()
	require.NoError(t, dialects.Override("pil", domain.FeatureDoc, "(help '%s)"))

	template, ok, err := dialects.Template("pil", domain.FeatureDoc, domain.LookupStrict)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "(help '%s)", template)

	template, _, err = before.Get("pil", domain.FeatureDoc, domain.LookupStrict)
	require.NoError(t, err)
	assert.Equal(t, "(doc '%s)", template)

	require.ErrorIs(t, dialects.Override("scheme", domain.FeatureDoc, "x"), domain.ErrUnknownDialect)
}

func TestDialectsLoadReplacesSameNamedEntries(t *testing.T) {
	t.Parallel()

	dialects, err := NewDialects(testDialect(), otherDialect())
	require.NoError(t, err)

	custom := testDialect()
	custom.Description = "patched"
	custom.Features = map[domain.Feature]string{domain.FeatureDoc: "(doc \"%s\")"}

	repo := mocks.NewMockDialectRepository(t)
	repo.EXPECT().List(mock.Anything).Return([]domain.Dialect{custom}, nil).Once()

	count, err := dialects.Load(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := dialects.Dialect("pil")
	require.NoError(t, err)
	assert.Equal(t, "patched", got.Description)
	assert.Len(t, dialects.List(), 2)
}

func TestDialectsLoadRejectsInvalidEntryAtomically(t *testing.T) {
	t.Parallel()

	dialects, err := NewDialects(testDialect())
	require.NoError(t, err)

	good := otherDialect()
	bad := domain.Dialect{ID: "empty", Prompt: "> "}

	repo := mocks.NewMockDialectRepository(t)
	repo.EXPECT().List(mock.Anything).Return([]domain.Dialect{good, bad}, nil).Once()

	_, err = dialects.Load(context.Background(), repo)
	require.ErrorContains(t, err, "at least one feature is required")

	_, err = dialects.Dialect("clojure")
	require.ErrorIs(t, err, domain.ErrUnknownDialect)
}

func TestDialectsDefinePersists(t *testing.T) {
	t.Parallel()

	dialects, err := NewDialects(testDialect())
	require.NoError(t, err)

	repo := mocks.NewMockDialectRepository(t)
	repo.EXPECT().Save(mock.Anything, mock.MatchedBy(func(d domain.Dialect) bool {
		return d.ID == "clojure"
	})).Return(nil).Once()

	require.NoError(t, dialects.Define(context.Background(), repo, otherDialect()))

	_, err = dialects.Dialect("clojure")
	require.NoError(t, err)
}

func TestDialectsDefineRollsBackWhenSaveFails(t *testing.T) {
	t.Parallel()

	dialects, err := NewDialects(testDialect())
	require.NoError(t, err)

	repo := mocks.NewMockDialectRepository(t)
	repo.EXPECT().Save(mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	err = dialects.SetTemplate(context.Background(), repo, "pil", domain.FeatureDoc, "(help '%s)")
	require.EqualError(t, err, "save dialect pil: disk full")

	template, _, err := dialects.Template("pil", domain.FeatureDoc, domain.LookupStrict)
	require.NoError(t, err)
	assert.Equal(t, "(doc '%s)", template)
}

func TestDialectsSetTemplateRequiresKnownDialect(t *testing.T) {
	t.Parallel()

	dialects, err := NewDialects(testDialect())
	require.NoError(t, err)

	err = dialects.SetTemplate(context.Background(), mocks.NewMockDialectRepository(t), "scheme", domain.FeatureDoc, "x")
	require.ErrorIs(t, err, domain.ErrUnknownDialect)
}
