package cmdline_test

import (
	"testing"

	"github.com/hibernatectl/hibernatectl/pkg/cmdline"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := cmdline.Parse("root=UUID=d1b2 rw quiet resume=/dev/sda2 resume_offset=533760")
	require.NoError(t, err)
	require.Len(t, p, 5)
	require.Equal(t, "UUID=d1b2", p.GetValue("root"))
	require.Equal(t, "/dev/sda2", p.GetValue("resume"))
	require.Equal(t, "533760", p.GetValue("resume_offset"))
	require.True(t, p.Include("quiet"))
	require.Empty(t, p.GetValue("quiet"))
}

func TestAddOrReplace(t *testing.T) {
	p, err := cmdline.Parse("root=/dev/sda1 quiet")
	require.NoError(t, err)

	p.AddOrReplace("resume=UUID=abcd")
	require.Equal(t, "UUID=abcd", p.GetValue("resume"))

	p.AddOrReplace("resume=UUID=efgh")
	require.Equal(t, "UUID=efgh", p.GetValue("resume"))
	require.Len(t, p, 3)

	// replacement keeps position
	require.Equal(t, "resume=UUID=efgh", p[2])
}

func TestAddUnlessExist(t *testing.T) {
	p := cmdline.Params{"quiet"}
	p.AddUnlessExist("quiet")
	p.AddUnlessExist("splash")
	require.Equal(t, cmdline.Params{"quiet", "splash"}, p)
}

func TestDelete(t *testing.T) {
	p, err := cmdline.Parse("root=/dev/sda1 resume=UUID=abcd resume_offset=1234 quiet")
	require.NoError(t, err)

	p.Delete("resume")
	p.Delete("resume_offset")
	require.Equal(t, "root=/dev/sda1 quiet", p.String())

	p.Delete("nonexistent")
	require.Len(t, p, 2)
}

func TestEquals(t *testing.T) {
	a, err := cmdline.Parse("quiet resume=UUID=abcd")
	require.NoError(t, err)
	b, err := cmdline.Parse("resume=UUID=abcd quiet")
	require.NoError(t, err)
	require.True(t, a.Equals(b))

	b.AddOrReplace("resume=UUID=efgh")
	require.False(t, a.Equals(b))
}

func TestStringQuotesWhitespace(t *testing.T) {
	p := cmdline.Params{"root=UUID=ab cd", "rw"}
	require.Equal(t, `root='UUID=ab cd' rw`, p.String())
}
