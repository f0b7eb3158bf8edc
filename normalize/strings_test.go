package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prefeitura-rio/gorio-session-gateway/normalize"
)

func TestRepairAccents(t *testing.T) {
	t.Run("repairs double-encoded text", func(t *testing.T) {
		require.Equal(t, "João", normalize.RepairAccents("JoÃ£o"))
		require.Equal(t, "Educação", normalize.RepairAccents("EducaÃ§Ã£o"))
		require.Equal(t, "Saúde", normalize.RepairAccents("SaÃºde"))
	})

	t.Run("leaves clean text alone", func(t *testing.T) {
		for _, s := range []string{"", "João", "plain ascii", "Educação e Saúde"} {
			require.Equal(t, s, normalize.RepairAccents(s))
		}
	})

	t.Run("leaves genuine non-latin text alone", func(t *testing.T) {
		s := "Ãpple 日本語"
		require.Equal(t, s, normalize.RepairAccents(s))
	})
}

func TestDedupeCategories(t *testing.T) {
	t.Run("case and accent insensitive", func(t *testing.T) {
		in := []string{"Educação", "educacao", "EDUCAÇÃO", "Saúde", "saude"}
		require.Equal(t, []string{"Educação", "Saúde"}, normalize.DedupeCategories(in))
	})

	t.Run("keeps first spelling and order", func(t *testing.T) {
		in := []string{"Cultura", "Esporte", "cultura", "Lazer"}
		require.Equal(t, []string{"Cultura", "Esporte", "Lazer"}, normalize.DedupeCategories(in))
	})

	t.Run("drops blanks", func(t *testing.T) {
		require.Equal(t, []string{"Cultura"}, normalize.DedupeCategories([]string{" ", "", "Cultura"}))
	})

	t.Run("empty input", func(t *testing.T) {
		require.Empty(t, normalize.DedupeCategories(nil))
	})
}
