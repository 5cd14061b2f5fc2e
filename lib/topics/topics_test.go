package topics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagNoKeywords(t *testing.T) {
	tags, flags := Tag("Mediocre", "Nothing to say here.")
	require.Equal(t, "general", tags)
	require.Len(t, flags, len(Taxonomy))
	for topic, hit := range flags {
		require.False(t, hit, "topic %s should not be detected", topic)
	}
}

func TestTagSingleTopic(t *testing.T) {
	tags, flags := Tag("No complaints", "The package arrived yesterday.")
	require.Equal(t, "delivery", tags)
	require.True(t, flags["delivery"])
	require.False(t, flags["price"])
}

func TestTagEveryTopicDetectable(t *testing.T) {
	for _, topic := range Taxonomy {
		for _, kw := range topic.Keywords {
			_, flags := Tag("", "xx "+kw+" xx")
			require.True(t, flags[topic.Name], "keyword %q should trigger topic %s", kw, topic.Name)
		}
	}
}

func TestTagCaseInsensitive(t *testing.T) {
	tags, flags := Tag("TERRIBLE SHIPPING", "")
	require.True(t, flags["delivery"])
	require.Contains(t, tags, "delivery")
}

func TestTagMultipleTopicsKeepTaxonomyOrder(t *testing.T) {
	tags, flags := Tag("Refund request", "The price was fine but shipping took weeks.")
	require.True(t, flags["delivery"])
	require.True(t, flags["price"])
	require.True(t, flags["refund"])
	require.Equal(t, "delivery, price, refund", tags)
}

func TestTagTitleAndTextBothSearched(t *testing.T) {
	_, fromTitle := Tag("checkout was easy", "")
	require.True(t, fromTitle["order"])

	_, fromText := Tag("", "checkout was easy")
	require.True(t, fromText["order"])
}

func TestTaxonomyShape(t *testing.T) {
	require.Len(t, Taxonomy, 8)
	names := make([]string, 0, len(Taxonomy))
	total := 0
	for _, topic := range Taxonomy {
		names = append(names, topic.Name)
		total += len(topic.Keywords)
		for _, kw := range topic.Keywords {
			require.Equal(t, strings.ToLower(kw), kw)
		}
	}
	require.Equal(t, []string{"delivery", "price", "service", "product", "staff", "order", "location", "refund"}, names)
	require.Equal(t, 74, total)
}
