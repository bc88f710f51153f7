package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewArtifactID(t *testing.T) {
	created := time.Date(2026, 8, 20, 14, 30, 5, 0, time.UTC)
	id := NewArtifactID(KindModel, "alice", created)

	assert.True(t, strings.HasPrefix(id, "mdl_alice_20260820T143005_"))
	assert.Len(t, strings.Split(id, "_"), 4)

	// IDs differ across calls.
	assert.NotEqual(t, id, NewArtifactID(KindModel, "alice", created))
}

func TestIDCreatedAt(t *testing.T) {
	created := time.Date(2026, 8, 20, 14, 30, 5, 0, time.UTC)

	// Owner ids with underscores still round-trip, the timestamp sits at a
	// fixed position from the tail.
	id := NewArtifactID(KindDataset, "team_a_user", created)
	got, ok := IDCreatedAt(id)
	assert.True(t, ok)
	assert.Equal(t, created, got)

	_, ok = IDCreatedAt("garbage")
	assert.False(t, ok)
	_, ok = IDCreatedAt("a_b_notatime_c")
	assert.False(t, ok)
}

func TestBlobKeyRoundTrip(t *testing.T) {
	created := time.Date(2026, 8, 20, 14, 30, 5, 0, time.UTC)

	for _, kind := range Kinds {
		id := NewArtifactID(kind, "alice", created)
		key := BlobKey(kind, "alice", id)

		assert.True(t, strings.HasPrefix(key, string(kind)+"/alice/"))
		assert.True(t, strings.HasSuffix(key, kind.Ext()))
		assert.Equal(t, id, IDFromBlobKey(kind, key))
	}
}

func TestKind(t *testing.T) {
	assert.True(t, KindDataset.Valid())
	assert.False(t, Kind("bogus").Valid())

	assert.Equal(t, "datasets", KindDataset.Collection())
	assert.Equal(t, "reports", KindReport.Collection())
	assert.Equal(t, ".pkl", KindModel.Ext())
	assert.Equal(t, "plt", KindPlot.Tag())
}

func TestArtifactTombstoned(t *testing.T) {
	a := &Artifact{}
	assert.False(t, a.Tombstoned())

	now := time.Now()
	a.DeletedAt = &now
	assert.True(t, a.Tombstoned())
}
