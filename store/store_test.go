package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BaSui01/synax/routing"
	"github.com/BaSui01/synax/testutil/fixtures"
	"github.com/BaSui01/synax/types"
)

func newTestStore(t *testing.T) *GroupStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "groups.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	s := NewGroupStore(db, zaptest.NewLogger(t))
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestGroupStore_SaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g := *fixtures.MixedGroup()
	g.Options = map[string]any{"tier": "gold"}
	g.Members[0].Options = map[string]any{"region": "eu", "stream": true}
	require.NoError(t, s.SaveGroup(ctx, g))

	got, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestGroupStore_MemberOrderPreserved(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g := routing.Group{ID: "ordered", Members: []routing.Member{
		{Provider: "zeta", Model: "m1"},
		{Provider: "alpha", Model: "m2"},
		{Provider: "mid", Default: "m3"},
	}}
	require.NoError(t, s.SaveGroup(ctx, g))

	got, err := s.GetGroup(ctx, "ordered")
	require.NoError(t, err)
	require.Len(t, got.Members, 3)
	assert.Equal(t, "zeta", got.Members[0].Provider)
	assert.Equal(t, "alpha", got.Members[1].Provider)
	assert.Equal(t, "mid", got.Members[2].Provider)
	assert.Equal(t, "m3", got.Members[2].Default)
}

func TestGroupStore_SaveReplacesMembers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveGroup(ctx, *fixtures.ChatGroup()))

	updated := routing.Group{ID: fixtures.ChatGroup().ID, Name: "Chat v2", Use: "rr",
		Members: []routing.Member{{Provider: "p3", Model: "gemini"}}}
	require.NoError(t, s.SaveGroup(ctx, updated))

	got, err := s.GetGroup(ctx, updated.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chat v2", got.Name)
	assert.Equal(t, "rr", got.Use)
	require.Len(t, got.Members, 1)
	assert.Equal(t, "p3", got.Members[0].Provider)

	all, err := s.LoadGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGroupStore_LoadGroupsOrderedByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.LoadGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, id := range []string{"vision", "chat", "embed"} {
		require.NoError(t, s.SaveGroup(ctx, routing.Group{ID: id, Members: []routing.Member{{Provider: "p-" + id}}}))
	}
	require.NoError(t, s.SaveGroup(ctx, routing.Group{ID: "bare"}))

	all, err := s.LoadGroups(ctx)
	require.NoError(t, err)
	var ids []string
	for _, g := range all {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"bare", "chat", "embed", "vision"}, ids)
	assert.Empty(t, all[0].Members)
	assert.Equal(t, "p-chat", all[1].Members[0].Provider)
}

func TestGroupStore_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetGroup(ctx, "ghost")
	assert.True(t, types.IsCode(err, types.ErrGroupNotFound))

	err = s.DeleteGroup(ctx, "ghost")
	assert.True(t, types.IsCode(err, types.ErrGroupNotFound))
}

func TestGroupStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveGroup(ctx, *fixtures.ChatGroup()))
	require.NoError(t, s.DeleteGroup(ctx, fixtures.ChatGroup().ID))

	_, err := s.GetGroup(ctx, fixtures.ChatGroup().ID)
	assert.True(t, types.IsCode(err, types.ErrGroupNotFound))

	var orphans int64
	require.NoError(t, s.db.Model(&memberRecord{}).Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestGroupStore_SaveRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveGroup(context.Background(), routing.Group{ID: "bad", Members: []routing.Member{{Model: "x"}}})
	assert.True(t, types.IsCode(err, types.ErrInvalidConfig))

	err = s.SaveGroup(context.Background(), routing.Group{})
	assert.True(t, types.IsCode(err, types.ErrInvalidConfig))
}
