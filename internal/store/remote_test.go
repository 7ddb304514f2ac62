package store_test

import (
	"testing"
	"time"

	"spendbook/internal/store"
	"spendbook/internal/testutil"
)

func TestRemoteSelectMissingRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	remote := store.NewRemote(db)

	rec, err := remote.Select("00000000-0000-0000-0000-000000000000")
	testutil.AssertNoError(t, err)
	if rec != nil {
		t.Errorf("expected nil for a missing row, got %+v", rec)
	}
}

func TestRemoteUpsertKeepsOneRowPerUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	remote := store.NewRemote(db)

	userID := "11111111-1111-1111-1111-111111111111"
	first := store.Record{UserID: userID, Payload: `{"v":1}`, UpdatedAt: time.Now().UTC()}
	testutil.AssertNoError(t, remote.Upsert(first))

	second := store.Record{UserID: userID, Payload: `{"v":2}`, UpdatedAt: time.Now().UTC().Add(time.Second)}
	testutil.AssertNoError(t, remote.Upsert(second))

	rec, err := remote.Select(userID)
	testutil.AssertNoError(t, err)
	if rec == nil || rec.Payload != `{"v":2}` {
		t.Fatalf("expected the second payload to replace the first, got %+v", rec)
	}

	var count int64
	testutil.AssertNoError(t, db.Model(&store.Record{}).Where("user_id = ?", userID).Count(&count).Error)
	if count != 1 {
		t.Errorf("expected exactly one row per user, got %d", count)
	}
}
