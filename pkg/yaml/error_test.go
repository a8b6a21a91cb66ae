package yaml_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidfowl/tally/pkg/yaml"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  *yaml.Error
		want string
	}{
		"with path": {
			err: yaml.NewError(
				errors.New("value is required"),
				yaml.WithPath(yaml.NewPathBuilder().Root().Child("rule_mode").Build()),
			),
			want: "error at $.rule_mode: value is required",
		},
		"without path": {
			err:  yaml.NewError(errors.New("value is required")),
			want: "value is required",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestError_AnnotatesSource(t *testing.T) {
	t.Parallel()

	err := yaml.NewError(
		errors.New("got number, want string"),
		yaml.WithPath(yaml.NewPathBuilder().Root().Child("merchants_file").Build()),
		yaml.WithSource([]byte(`rule_mode: first_match
merchants_file: 42
`)),
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error at $.merchants_file")
	assert.Contains(t, err.Error(), "42")
}

func TestErrorWrapper(t *testing.T) {
	t.Parallel()

	source := []byte("rules: []\n")
	ew := yaml.NewErrorWrapper(yaml.WithSource(source))

	t.Run("enriches yaml errors", func(t *testing.T) {
		t.Parallel()

		wrapped := ew.Wrap(yaml.NewError(errors.New("boom")))

		var yamlErr *yaml.Error
		require.ErrorAs(t, wrapped, &yamlErr)
		assert.Equal(t, source, yamlErr.Source)
	})

	t.Run("passes through other errors", func(t *testing.T) {
		t.Parallel()

		plain := errors.New("not yaml")
		assert.Equal(t, plain, ew.Wrap(plain)) //nolint:testifylint // Identity check.
	})

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, ew.Wrap(nil))
	})
}
