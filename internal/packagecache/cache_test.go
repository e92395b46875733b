package packagecache

import (
	"testing"

	"github.com/stretchr/testify/require"

	vynilv1 "github.com/sebt3/vynil/api/v1"
)

func record(category, name, tag string) vynilv1.PackageRecord {
	return vynilv1.PackageRecord{
		Tag:      tag,
		Metadata: vynilv1.PackageMetadata{Category: category, Name: name},
	}
}

func TestReplaceForJukeBoxIsolatesEntries(t *testing.T) {
	c := New()
	c.ReplaceForJukeBox("box-a", []vynilv1.PackageRecord{record("db", "postgres", "16.0")})
	c.ReplaceForJukeBox("box-b", []vynilv1.PackageRecord{record("cache", "redis", "7.0")})

	require.True(t, c.Has("db", "postgres"))
	require.True(t, c.Has("cache", "redis"))
	require.Len(t, c.Entries(), 2)
}

func TestReplaceForJukeBoxDropsStale(t *testing.T) {
	c := New()
	c.ReplaceForJukeBox("box-a", []vynilv1.PackageRecord{record("db", "postgres", "16.0")})
	c.ReplaceForJukeBox("box-a", []vynilv1.PackageRecord{record("db", "mysql", "8.0")})

	require.False(t, c.Has("db", "postgres"))
	require.True(t, c.Has("db", "mysql"))
}

func TestLookupPinnedToJukeBox(t *testing.T) {
	c := New()
	c.ReplaceForJukeBox("box-a", []vynilv1.PackageRecord{record("db", "postgres", "16.0")})

	name := "box-b"
	_, found := c.Lookup("db", "postgres", &name)
	require.False(t, found)

	name = "box-a"
	_, found = c.Lookup("db", "postgres", &name)
	require.True(t, found)
}

func TestRemoveJukeBox(t *testing.T) {
	c := New()
	c.ReplaceForJukeBox("box-a", []vynilv1.PackageRecord{record("db", "postgres", "16.0")})
	c.RemoveJukeBox("box-a")
	require.Empty(t, c.Entries())
}
