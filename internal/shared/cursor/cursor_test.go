package cursor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name      string
		reference string
		want      string
	}{
		{name: "bare query", reference: "from=dog123", want: "dog123"},
		{name: "bare query with extra params", reference: "from=dog123&other=param", want: "dog123"},
		{name: "empty", reference: "", want: ""},
		{name: "blank", reference: "   ", want: ""},
		{name: "missing key", reference: "other=param", want: ""},
		{name: "relative url", reference: "/dogs/search?size=25&from=25&sort=breed%3Aasc", want: "25"},
		{name: "absolute url", reference: "https://example.com/dogs/search?from=50", want: "50"},
		{name: "only first question mark splits", reference: "/dogs/search?from=a?b", want: "a?b"},
		{name: "escaped value", reference: "from=abc%3D%3D", want: "abc=="},
		{name: "malformed escape", reference: "from=%zz", want: ""},
		{name: "trailing fragment", reference: "/dogs/search?from=75#top", want: "75"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Extract(tc.reference))
		})
	}
}
