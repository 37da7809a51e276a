package shell_test

import (
	"testing"

	"github.com/hibernatectl/hibernatectl/internal/shell"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Run("words", func(t *testing.T) {
		out, err := shell.Split("quiet splash resume=/dev/sda2")
		require.NoError(t, err)
		require.Equal(t, []string{"quiet", "splash", "resume=/dev/sda2"}, out)
	})

	t.Run("quoted value", func(t *testing.T) {
		out, err := shell.Split(`root="UUID=abcd efgh" rw`)
		require.NoError(t, err)
		require.Equal(t, []string{"root=UUID=abcd efgh", "rw"}, out)
	})

	t.Run("repeated whitespace", func(t *testing.T) {
		out, err := shell.Split("a  b\tc")
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "c"}, out)
	})

	t.Run("mismatched quotes", func(t *testing.T) {
		_, err := shell.Split(`foo "bar`)
		require.ErrorIs(t, err, shell.ErrMismatchedQuotes)
	})

	t.Run("trailing backslash", func(t *testing.T) {
		_, err := shell.Split(`foo\`)
		require.ErrorIs(t, err, shell.ErrTrailingBackslash)
	})
}

func TestUnquote(t *testing.T) {
	t.Run("no quotes", func(t *testing.T) {
		out, err := shell.Unquote("foo bar")
		require.NoError(t, err)
		require.Equal(t, "foo bar", out)
	})

	t.Run("simple quotes", func(t *testing.T) {
		out, err := shell.Unquote(`"foo" 'bar'`)
		require.NoError(t, err)
		require.Equal(t, "foo bar", out)
	})

	t.Run("mid-word quotes", func(t *testing.T) {
		out, err := shell.Unquote(`f"o"o b'a'r`)
		require.NoError(t, err)
		require.Equal(t, "foo bar", out)
	})

	t.Run("escaped quotes", func(t *testing.T) {
		out, err := shell.Unquote(`\'foo\' 'bar'`)
		require.NoError(t, err)
		require.Equal(t, "'foo' bar", out)
	})

	t.Run("single quotes keep backslashes", func(t *testing.T) {
		out, err := shell.Unquote(`'foo\bar'`)
		require.NoError(t, err)
		require.Equal(t, `foo\bar`, out)
	})

	t.Run("mismatched quotes", func(t *testing.T) {
		_, err := shell.Unquote(`"foo`)
		require.ErrorIs(t, err, shell.ErrMismatchedQuotes)
	})
}
