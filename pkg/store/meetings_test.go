package store

import (
	"sync"
	"testing"
	"time"

	"github.com/LingByte/LingMeetX/pkg/models"
	"github.com/LingByte/LingMeetX/pkg/utils"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.Entities()...))
	return db
}

func TestMeetingLifecycle(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	meetings := NewMeetingStore(db)

	host, err := users.Create("host@example.com", "pw123456", "Host")
	require.NoError(t, err)

	meeting, err := meetings.Create("Standup", "daily sync", host.ID)
	require.NoError(t, err)
	assert.True(t, meeting.IsActive)
	assert.NotEmpty(t, meeting.InviteCode)
	assert.Equal(t, host.ID, meeting.HostID)

	found, err := meetings.FindByID(meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, meeting.Title, found.Title)

	// Only the host may end the meeting.
	_, err = meetings.End(meeting.ID, host.ID+1)
	require.Error(t, err)

	ended, err := meetings.End(meeting.ID, host.ID)
	require.NoError(t, err)
	assert.False(t, ended.IsActive)
	require.NotNil(t, ended.EndTime)
}

func TestEndLeavesCachedMeetingUntouched(t *testing.T) {
	utils.InitGlobalCache(1024, time.Minute)
	t.Cleanup(func() { utils.InitGlobalCache(1024, time.Minute) })

	db := openTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	users := NewUserStore(db)
	meetings := NewMeetingStore(db)

	host, err := users.Create("host@example.com", "pw123456", "Host")
	require.NoError(t, err)
	meeting, err := meetings.Create("Standup", "", host.ID)
	require.NoError(t, err)

	// Prime the cache and hold the object other callers were handed.
	cached, err := meetings.FindByID(meeting.ID)
	require.NoError(t, err)
	require.True(t, cached.IsActive)

	ended, err := meetings.End(meeting.ID, host.ID)
	require.NoError(t, err)
	assert.False(t, ended.IsActive)
	require.NotNil(t, ended.EndTime)

	// Ending must not write through the previously handed-out object.
	assert.True(t, cached.IsActive)
	assert.Nil(t, cached.EndTime)

	fresh, err := meetings.FindByID(meeting.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsActive)

	// Cached readers racing an End must stay safe under -race.
	second, err := meetings.Create("Retro", "", host.ID)
	require.NoError(t, err)
	_, err = meetings.FindByID(second.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if m, err := meetings.FindByID(second.ID); err == nil {
					_ = m.IsActive
				}
			}
		}()
	}
	_, err = meetings.End(second.ID, host.ID)
	wg.Wait()
	require.NoError(t, err)
}

func TestParticipantTimestamps(t *testing.T) {
	db := openTestDB(t)
	meetings := NewMeetingStore(db)

	meeting, err := meetings.Create("Call", "", 1)
	require.NoError(t, err)

	require.NoError(t, meetings.AddParticipant(meeting.ID, 2))

	rows, err := meetings.Participants(meeting.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].LeftAt)

	require.NoError(t, meetings.RemoveParticipant(meeting.ID, 2))
	rows, err = meetings.Participants(meeting.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].LeftAt)

	// Removing a user who never joined is a no-op.
	require.NoError(t, meetings.RemoveParticipant(meeting.ID, 99))
}

func TestRejoinOpensNewWindow(t *testing.T) {
	db := openTestDB(t)
	meetings := NewMeetingStore(db)

	meeting, err := meetings.Create("Call", "", 1)
	require.NoError(t, err)

	require.NoError(t, meetings.AddParticipant(meeting.ID, 2))
	require.NoError(t, meetings.RemoveParticipant(meeting.ID, 2))
	require.NoError(t, meetings.AddParticipant(meeting.ID, 2))

	rows, err := meetings.Participants(meeting.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.NotNil(t, rows[0].LeftAt)
	assert.Nil(t, rows[1].LeftAt)
}

func TestEndStale(t *testing.T) {
	db := openTestDB(t)
	meetings := NewMeetingStore(db)

	old := &models.Meeting{
		Title:      "Old",
		HostID:     1,
		InviteCode: "old-code-1",
		StartTime:  time.Now().Add(-3 * time.Hour),
		IsActive:   true,
	}
	require.NoError(t, db.Create(old).Error)

	fresh, err := meetings.Create("Fresh", "", 1)
	require.NoError(t, err)

	n, err := meetings.EndStale(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got models.Meeting
	require.NoError(t, db.First(&got, old.ID).Error)
	assert.False(t, got.IsActive)

	var gotFresh models.Meeting
	require.NoError(t, db.First(&gotFresh, fresh.ID).Error)
	assert.True(t, gotFresh.IsActive)
}
